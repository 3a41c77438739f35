package game

import "math"

// Radar categories, in display order.
const (
	CategoryOverall    = "Overall"
	CategoryAttack     = "Attack"
	CategoryMidfield   = "Midfield"
	CategoryDefense    = "Defense"
	CategoryGoals      = "avg Goals Scored last 4 games"
	CategoryXG         = "avg xG last 4 games"
	CategoryPossession = "avg Possession last 4 games"
	CategorySalary     = "Salary Level"
)

var Categories = []string{
	CategoryOverall,
	CategoryAttack,
	CategoryMidfield,
	CategoryDefense,
	CategoryGoals,
	CategoryXG,
	CategoryPossession,
	CategorySalary,
}

// ceilings are the raw values that map to 100. Salary is min-max scaled instead.
var ceilings = map[string]float64{
	CategoryOverall:    100,
	CategoryAttack:     100,
	CategoryMidfield:   100,
	CategoryDefense:    100,
	CategoryGoals:      6,
	CategoryXG:         6,
	CategoryPossession: 100,
}

// SalaryRange holds the dataset-wide salary bounds.
type SalaryRange struct {
	Min float64
	Max float64
}

// Radar is a two-team polar chart series. Categories and both value slices
// repeat their first element at the end so the polygon closes.
type Radar struct {
	TeamA      string    `json:"team_a"`
	TeamB      string    `json:"team_b"`
	Categories []string  `json:"categories"`
	ValuesA    []float64 `json:"values_a"`
	ValuesB    []float64 `json:"values_b"`
}

// NewRadar normalises both teams' metrics onto a 0..100 scale.
func NewRadar(teamA, teamB string, a, b map[string]float64, salaries SalaryRange) Radar {
	cats := make([]string, 0, len(Categories)+1)
	cats = append(cats, Categories...)
	cats = append(cats, Categories[0])

	return Radar{
		TeamA:      teamA,
		TeamB:      teamB,
		Categories: cats,
		ValuesA:    closeLoop(Normalize(a, salaries)),
		ValuesB:    closeLoop(Normalize(b, salaries)),
	}
}

// MatchRadar builds the radar for a match record.
func MatchRadar(m MatchRecord, salaries SalaryRange) Radar {
	return NewRadar(m.Team, m.Opponent, m.TeamStats.Metrics(), m.OpponentStats.Metrics(), salaries)
}

// Normalize returns one value per category in Categories order. Missing
// metrics count as zero.
func Normalize(stats map[string]float64, salaries SalaryRange) []float64 {
	out := make([]float64, 0, len(Categories))
	for _, c := range Categories {
		v := stats[c]
		var n float64
		if c == CategorySalary {
			n = salaryLevel(v, salaries)
		} else {
			n = v * 100 / ceilings[c]
		}
		out = append(out, clamp(n))
	}
	return out
}

func salaryLevel(v float64, r SalaryRange) float64 {
	span := r.Max - r.Min
	if span <= 0 {
		return 0
	}
	return (v - r.Min) * 100 / span
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func closeLoop(vs []float64) []float64 {
	return append(vs, vs[0])
}
