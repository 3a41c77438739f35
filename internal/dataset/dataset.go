// Package dataset loads the historical match table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"Bundespredict/internal/game"
)

// Dataset is the immutable set of matches the game samples from.
type Dataset struct {
	Matches  []game.MatchRecord
	Salaries game.SalaryRange
}

var required = []string{
	"team", "opponent", "result", "date", "round", "venue", "referee", "day",
	"home_team_formation", "away_team_formation", "captain", "opponent_captain",
	"team_overall", "team_attack", "team_midfield", "team_defense",
	"opponent_overall", "opponent_attack", "opponent_midfield", "opponent_defense",
	"gf_last_4_games", "ga_last_4_games", "xg_last_4_games", "xga_last_4_games",
	"avg_points_last_4_games", "sh_last_4_games", "sot_last_4_games", "poss_last_4_games",
	"opponent_gf_last_4_games", "opponent_ga_last_4_games", "opponent_xg_last_4_games",
	"opponent_xga_last_4_games", "opponent_avg_points_last_4_games", "opponent_poss_last_4_games",
	"team_salary", "opponent_team_salary", "hour",
}

// Load reads the match CSV at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening match data: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse reads matches from CSV with a header row. Columns not used by the
// game are ignored.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("match data is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{Salaries: game.SalaryRange{Min: math.Inf(1), Max: math.Inf(-1)}}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading match data: %w", err)
		}
		line, _ := cr.FieldPos(0)

		row := rowReader{rec: rec, cols: cols, line: line}
		m := row.match()
		if row.err != nil {
			return nil, row.err
		}
		ds.Matches = append(ds.Matches, m)

		for _, s := range []float64{m.TeamStats.Salary, m.OpponentStats.Salary} {
			ds.Salaries.Min = math.Min(ds.Salaries.Min, s)
			ds.Salaries.Max = math.Max(ds.Salaries.Max, s)
		}
	}

	if len(ds.Matches) == 0 {
		return nil, errors.New("match data has no rows")
	}
	return ds, nil
}

// rowReader pulls typed cells out of one record and keeps the first error.
type rowReader struct {
	rec  []string
	cols map[string]int
	line int
	err  error
}

func (r *rowReader) str(col string) string {
	return strings.TrimSpace(r.rec[r.cols[col]])
}

func (r *rowReader) num(col string) float64 {
	if r.err != nil {
		return 0
	}
	raw := r.str(col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.err = fmt.Errorf("line %d, column %s: invalid number %q", r.line, col, raw)
		return 0
	}
	return v
}

func (r *rowReader) match() game.MatchRecord {
	res := game.Result(r.str("result"))
	if !res.Valid() {
		r.err = fmt.Errorf("line %d, column result: unknown result %q", r.line, res)
	}

	return game.MatchRecord{
		Team:            r.str("team"),
		Opponent:        r.str("opponent"),
		Result:          res,
		Date:            r.str("date"),
		Round:           r.str("round"),
		Venue:           r.str("venue"),
		Referee:         r.str("referee"),
		Day:             r.str("day"),
		Hour:            r.num("hour"),
		HomeFormation:   r.str("home_team_formation"),
		AwayFormation:   r.str("away_team_formation"),
		Captain:         r.str("captain"),
		OpponentCaptain: r.str("opponent_captain"),
		TeamStats: game.TeamStats{
			Overall:    r.num("team_overall"),
			Attack:     r.num("team_attack"),
			Midfield:   r.num("team_midfield"),
			Defense:    r.num("team_defense"),
			GoalsLast4: r.num("gf_last_4_games"),
			XGLast4:    r.num("xg_last_4_games"),
			PossLast4:  r.num("poss_last_4_games"),
			Salary:     r.num("team_salary"),
		},
		OpponentStats: game.TeamStats{
			Overall:    r.num("opponent_overall"),
			Attack:     r.num("opponent_attack"),
			Midfield:   r.num("opponent_midfield"),
			Defense:    r.num("opponent_defense"),
			GoalsLast4: r.num("opponent_gf_last_4_games"),
			XGLast4:    r.num("opponent_xg_last_4_games"),
			PossLast4:  r.num("opponent_poss_last_4_games"),
			Salary:     r.num("opponent_team_salary"),
		},
		GoalsAgainstLast4:         r.num("ga_last_4_games"),
		XGALast4:                  r.num("xga_last_4_games"),
		PointsLast4:               r.num("avg_points_last_4_games"),
		ShotsLast4:                r.num("sh_last_4_games"),
		ShotsOnTargetLast4:        r.num("sot_last_4_games"),
		OpponentGoalsAgainstLast4: r.num("opponent_ga_last_4_games"),
		OpponentXGALast4:          r.num("opponent_xga_last_4_games"),
		OpponentPointsLast4:       r.num("opponent_avg_points_last_4_games"),
	}
}
