package model

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// artifact builds a model where only team_overall and venue matter.
func artifact(intercept float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "intercept: %v\nnumeric:\n", intercept)
	for _, name := range NumericFeatures {
		coef := 0.0
		if name == "team_overall" {
			coef = 0.1
		}
		fmt.Fprintf(&sb, "  %s: %v\n", name, coef)
	}
	sb.WriteString("categorical:\n  venue:\n    Home: 1.0\n    Away: -1.0\n")
	sb.WriteString("scalers:\n  team_overall:\n    mean: 75\n    scale: 5\n")
	return sb.String()
}

func TestParseDefaultsThreshold(t *testing.T) {
	m, err := Parse([]byte(artifact(0)))
	if err != nil {
		t.Fatal(err)
	}
	if m.Threshold != 0.5 {
		t.Errorf("Threshold = %v, want 0.5", m.Threshold)
	}
}

func TestParseRejectsMissingCoefficient(t *testing.T) {
	b := strings.Replace(artifact(0), "  hour: 0\n", "", 1)
	if _, err := Parse([]byte(b)); err == nil {
		t.Fatal("expected error for missing hour coefficient")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	b := artifact(0) + "bias: 3\n"
	if _, err := Parse([]byte(b)); err == nil {
		t.Fatal("expected strict decoding to reject unknown key")
	}
}

func TestPredict(t *testing.T) {
	m, err := Parse([]byte(artifact(0)))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		overall float64
		venue   string
		want    bool
	}{
		{"strong at home", 85, "Home", true},
		{"weak away", 65, "Away", false},
		{"average at neutral", 75, "Neutral", true},
		{"slightly weak at home", 70, "Home", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := Features{Numeric("team_overall", tt.overall), Categorical("venue", tt.venue)}
			got, err := m.Predict(fs)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				p, _ := m.Probability(fs)
				t.Errorf("Predict = %v (p=%.3f), want %v", got, p, tt.want)
			}
		})
	}
}

func TestProbabilityStandardises(t *testing.T) {
	m, err := Parse([]byte(artifact(0)))
	if err != nil {
		t.Fatal(err)
	}
	// (80-75)/5 * 0.1 = 0.1
	p, err := m.Probability(Features{Numeric("team_overall", 80)})
	if err != nil {
		t.Fatal(err)
	}
	want := 1 / (1 + math.Exp(-0.1))
	if math.Abs(p-want) > 1e-12 {
		t.Errorf("Probability = %v, want %v", p, want)
	}
}

func TestPredictUnknownNumeric(t *testing.T) {
	m, err := Parse([]byte(artifact(0)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict(Features{Numeric("corners", 3)}); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(artifact(-2)), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Intercept != -2 {
		t.Errorf("Intercept = %v, want -2", m.Intercept)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
