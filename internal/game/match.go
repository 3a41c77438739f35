package game

import "Bundespredict/internal/model"

// Result is the actual outcome of a match from Team A's perspective.
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
	ResultDraw Result = "D"
)

// Valid reports whether r is one of W, L or D.
func (r Result) Valid() bool {
	return r == ResultWin || r == ResultLoss || r == ResultDraw
}

// TeamStats are the per-team metrics shown on the radar chart.
type TeamStats struct {
	Overall    float64
	Attack     float64
	Midfield   float64
	Defense    float64
	GoalsLast4 float64
	XGLast4    float64
	PossLast4  float64
	Salary     float64
}

// Metrics maps the stats to their radar category names.
func (s TeamStats) Metrics() map[string]float64 {
	return map[string]float64{
		CategoryOverall:    s.Overall,
		CategoryAttack:     s.Attack,
		CategoryMidfield:   s.Midfield,
		CategoryDefense:    s.Defense,
		CategoryGoals:      s.GoalsLast4,
		CategoryXG:         s.XGLast4,
		CategoryPossession: s.PossLast4,
		CategorySalary:     s.Salary,
	}
}

// MatchRecord is one historical fixture. Records are loaded once and never mutated.
type MatchRecord struct {
	Team     string
	Opponent string
	Result   Result

	Date    string
	Round   string
	Venue   string
	Referee string
	Day     string
	Hour    float64

	HomeFormation   string
	AwayFormation   string
	Captain         string
	OpponentCaptain string

	TeamStats     TeamStats
	OpponentStats TeamStats

	GoalsAgainstLast4  float64
	XGALast4           float64
	PointsLast4        float64
	ShotsLast4         float64
	ShotsOnTargetLast4 float64

	OpponentGoalsAgainstLast4 float64
	OpponentXGALast4          float64
	OpponentPointsLast4       float64
}

// Features returns the classifier input vector in training order.
func (m MatchRecord) Features() model.Features {
	return model.Features{
		model.Numeric("team_overall", m.TeamStats.Overall),
		model.Numeric("team_attack", m.TeamStats.Attack),
		model.Numeric("team_midfield", m.TeamStats.Midfield),
		model.Numeric("team_defense", m.TeamStats.Defense),
		model.Numeric("opponent_overall", m.OpponentStats.Overall),
		model.Numeric("opponent_attack", m.OpponentStats.Attack),
		model.Numeric("opponent_midfield", m.OpponentStats.Midfield),
		model.Numeric("opponent_defense", m.OpponentStats.Defense),
		model.Numeric("gf_last_4_games", m.TeamStats.GoalsLast4),
		model.Numeric("ga_last_4_games", m.GoalsAgainstLast4),
		model.Numeric("xg_last_4_games", m.TeamStats.XGLast4),
		model.Numeric("xga_last_4_games", m.XGALast4),
		model.Numeric("avg_points_last_4_games", m.PointsLast4),
		model.Numeric("sh_last_4_games", m.ShotsLast4),
		model.Numeric("sot_last_4_games", m.ShotsOnTargetLast4),
		model.Numeric("poss_last_4_games", m.TeamStats.PossLast4),
		model.Numeric("opponent_gf_last_4_games", m.OpponentStats.GoalsLast4),
		model.Numeric("opponent_ga_last_4_games", m.OpponentGoalsAgainstLast4),
		model.Numeric("opponent_xga_last_4_games", m.OpponentXGALast4),
		model.Numeric("opponent_avg_points_last_4_games", m.OpponentPointsLast4),
		model.Numeric("team_salary", m.TeamStats.Salary),
		model.Numeric("opponent_team_salary", m.OpponentStats.Salary),
		model.Numeric("hour", m.Hour),
		model.Categorical("venue", m.Venue),
		model.Categorical("day", m.Day),
		model.Categorical("home_team_formation", m.HomeFormation),
		model.Categorical("away_team_formation", m.AwayFormation),
		model.Categorical("captain", m.Captain),
		model.Categorical("opponent_captain", m.OpponentCaptain),
		model.Categorical("referee", m.Referee),
	}
}
