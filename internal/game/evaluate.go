package game

import "fmt"

// Label is a binary prediction: Team A wins, or it does not.
type Label string

const (
	Win    Label = "Win"
	NotWin Label = "Not Win"
)

// LabelOf collapses losses and draws into NotWin.
func LabelOf(r Result) Label {
	if r == ResultWin {
		return Win
	}
	return NotWin
}

// LabelFromBool maps a classifier output to a Label.
func LabelFromBool(win bool) Label {
	if win {
		return Win
	}
	return NotWin
}

// Severity tells the page how to style an outcome message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Evaluation is the scored outcome of one round.
type Evaluation struct {
	User         Label
	Model        Label
	Actual       Label
	UserCorrect  bool
	ModelCorrect bool
	Delta        int
	Message      string
	Severity     Severity
	RealResult   string
}

// Evaluate scores the user's choice against the model's for a match.
// The user only gains a point by beating the model and only loses one by
// being beaten by it.
func Evaluate(match MatchRecord, user, modelChoice Label) Evaluation {
	actual := LabelOf(match.Result)
	e := Evaluation{
		User:         user,
		Model:        modelChoice,
		Actual:       actual,
		UserCorrect:  user == actual,
		ModelCorrect: modelChoice == actual,
		RealResult:   fmt.Sprintf("The real result: Team %s did %s the game!", match.Team, actual),
	}

	switch {
	case e.UserCorrect && !e.ModelCorrect:
		e.Delta = 1
		e.Severity = SeveritySuccess
		e.Message = "Congratulations! You predicted correctly and the model was wrong. You get 1 point!"
	case !e.UserCorrect && e.ModelCorrect:
		e.Delta = -1
		e.Severity = SeverityError
		e.Message = "The model predicted correctly, but you were wrong. You lose 1 point."
	case e.UserCorrect:
		e.Severity = SeverityInfo
		e.Message = "Both you and the model predicted correctly. No points awarded."
	default:
		e.Severity = SeverityInfo
		e.Message = "Both you and the model predicted incorrectly. No points awarded."
	}
	return e
}
