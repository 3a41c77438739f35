package model

import (
	"fmt"
	"math"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Classifier predicts whether Team A wins from a feature vector.
type Classifier interface {
	Predict(Features) (bool, error)
}

// Scaler standardises a numeric feature before it is weighted.
type Scaler struct {
	Mean  float64 `yaml:"mean"`
	Scale float64 `yaml:"scale"`
}

// Logistic is a logistic regression over numeric and one-hot encoded inputs.
type Logistic struct {
	Intercept   float64                       `yaml:"intercept"`
	Threshold   float64                       `yaml:"threshold"`
	Numeric     map[string]float64            `yaml:"numeric"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
	Scalers     map[string]Scaler             `yaml:"scalers"`
}

// Load reads a YAML model artifact from path.
func Load(path string) (*Logistic, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML model artifact.
func Parse(b []byte) (*Logistic, error) {
	m := &Logistic{}
	if err := yaml.UnmarshalStrict(b, m); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if m.Threshold == 0 {
		m.Threshold = 0.5
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return nil, fmt.Errorf("model threshold %v outside (0,1)", m.Threshold)
	}
	for _, name := range NumericFeatures {
		if _, ok := m.Numeric[name]; !ok {
			return nil, fmt.Errorf("model has no coefficient for %q", name)
		}
	}
	for name, s := range m.Scalers {
		if s.Scale == 0 {
			return nil, fmt.Errorf("model scaler for %q has zero scale", name)
		}
	}
	return m, nil
}

// Probability returns the modelled probability that Team A wins.
func (m *Logistic) Probability(fs Features) (float64, error) {
	z := m.Intercept
	for _, f := range fs {
		if f.Categorical {
			// unseen categories fall back to the baseline
			z += m.Categorical[f.Name][f.Category]
			continue
		}
		coef, ok := m.Numeric[f.Name]
		if !ok {
			return 0, fmt.Errorf("unknown numeric feature %q", f.Name)
		}
		v := f.Value
		if s, ok := m.Scalers[f.Name]; ok {
			v = (v - s.Mean) / s.Scale
		}
		z += coef * v
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict reports true when the win probability reaches the threshold.
func (m *Logistic) Predict(fs Features) (bool, error) {
	p, err := m.Probability(fs)
	if err != nil {
		return false, err
	}
	return p >= m.Threshold, nil
}
