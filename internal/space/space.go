// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package space models the hyperparameter search-space document consumed by
// the external tuning tool. The wire format is fixed by the tool: a JSON
// object mapping each parameter name to {"_type": kind, "_value": [...]}.
package space

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind selects a sampling distribution for one hyperparameter.
type Kind string

const (
	// Choice samples uniformly from an explicit list of values.
	Choice Kind = "choice"

	// Uniform samples a float uniformly from [Low, High].
	Uniform Kind = "uniform"
)

// Param is the sampling specification for one hyperparameter.
type Param struct {
	Kind Kind

	// Values holds the candidate values for Choice parameters.
	Values []any

	// Low and High bound Uniform parameters.
	Low, High float64
}

// Space maps hyperparameter names to sampling specifications. Every
// hyperparameter the training entry point accepts must appear here, under
// exactly the name the external tuner reports back.
type Space map[string]Param

// wireParam is the external tool's on-disk parameter shape.
type wireParam struct {
	Type  Kind  `json:"_type"`
	Value []any `json:"_value"`
}

// MarshalJSON writes the parameter in the tool's {_type,_value} shape.
func (p Param) MarshalJSON() ([]byte, error) {
	w := wireParam{Type: p.Kind}
	switch p.Kind {
	case Choice:
		w.Value = p.Values
	case Uniform:
		w.Value = []any{p.Low, p.High}
	default:
		return nil, fmt.Errorf("unknown parameter kind %q", p.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the tool's {_type,_value} shape back into a Param.
func (p *Param) UnmarshalJSON(data []byte) error {
	var w wireParam
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case Choice:
		p.Kind = Choice
		p.Values = w.Value
	case Uniform:
		if len(w.Value) != 2 {
			return fmt.Errorf("uniform parameter needs [low, high], got %d values", len(w.Value))
		}
		low, lok := w.Value[0].(float64)
		high, hok := w.Value[1].(float64)
		if !lok || !hok {
			return fmt.Errorf("uniform bounds must be numbers, got %v", w.Value)
		}
		p.Kind = Uniform
		p.Low = low
		p.High = high
	default:
		return fmt.Errorf("unknown parameter kind %q", w.Type)
	}
	return nil
}

// Validate checks every parameter's specification: choice parameters need at
// least one value, uniform parameters need low < high.
func (s Space) Validate() error {
	for name, p := range s {
		switch p.Kind {
		case Choice:
			if len(p.Values) == 0 {
				return fmt.Errorf("parameter %s: choice needs at least one value", name)
			}
		case Uniform:
			if p.Low >= p.High {
				return fmt.Errorf("parameter %s: uniform bounds [%g, %g] are not ordered", name, p.Low, p.High)
			}
		default:
			return fmt.Errorf("parameter %s: unknown kind %q", name, p.Kind)
		}
	}
	return nil
}

// Save validates the space and writes it to path, fully replacing any
// previous document. Marshaling sorts parameter names, so repeated saves of
// the same space are byte-identical.
func (s Space) Save(path string) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid search space: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling search space: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing search space: %w", err)
	}
	return nil
}

// Load reads a search-space document from path.
func Load(path string) (Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading search space: %w", err)
	}
	var s Space
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing search space: %w", err)
	}
	return s, nil
}

// Default is the search space for the matrix-factorization model: latent
// dimension and regularization weight are sampled from fixed candidate lists,
// the learning-rate exponent from a continuous range.
func Default() Space {
	return Space{
		"n_factors":         {Kind: Choice, Values: []any{8, 12, 16, 24, 40}},
		"reg":               {Kind: Choice, Values: []any{0.01, 0.05, 0.1}},
		"learning_rate_exp": {Kind: Uniform, Low: -5, High: -1},
	}
}
