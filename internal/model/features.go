package model

// Feature is one named input to the classifier. Categorical features carry
// their value in Category and leave Value at zero.
type Feature struct {
	Name        string
	Value       float64
	Category    string
	Categorical bool
}

// Features is a fixed-order feature vector.
type Features []Feature

// NumericFeatures lists the numeric model inputs in the order the model was trained on.
var NumericFeatures = []string{
	"team_overall", "team_attack", "team_midfield", "team_defense",
	"opponent_overall", "opponent_attack", "opponent_midfield", "opponent_defense",
	"gf_last_4_games", "ga_last_4_games", "xg_last_4_games", "xga_last_4_games",
	"avg_points_last_4_games", "sh_last_4_games", "sot_last_4_games", "poss_last_4_games",
	"opponent_gf_last_4_games", "opponent_ga_last_4_games", "opponent_xga_last_4_games",
	"opponent_avg_points_last_4_games", "team_salary", "opponent_team_salary", "hour",
}

// CategoricalFeatures follow the numeric ones in the feature vector.
var CategoricalFeatures = []string{
	"venue", "day", "home_team_formation", "away_team_formation",
	"captain", "opponent_captain", "referee",
}

func Numeric(name string, v float64) Feature {
	return Feature{Name: name, Value: v}
}

func Categorical(name, v string) Feature {
	return Feature{Name: name, Category: v, Categorical: true}
}
