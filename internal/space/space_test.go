// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package space

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestParamWireFormat(t *testing.T) {
	tests := []struct {
		name  string
		param Param
		want  string
	}{
		{
			name:  "choice",
			param: Param{Kind: Choice, Values: []any{8, 12, 16}},
			want:  `{"_type":"choice","_value":[8,12,16]}`,
		},
		{
			name:  "uniform",
			param: Param{Kind: Uniform, Low: -5, High: -1},
			want:  `{"_type":"uniform","_value":[-5,-1]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.param)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("wire form = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestParamRoundTrip(t *testing.T) {
	orig := Param{Kind: Uniform, Low: 0.001, High: 0.1}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var back Param
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != Uniform || back.Low != orig.Low || back.High != orig.High {
		t.Errorf("round trip = %+v, want %+v", back, orig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		space   Space
		wantErr bool
	}{
		{name: "default space", space: Default()},
		{name: "empty choice", space: Space{"x": {Kind: Choice}}, wantErr: true},
		{name: "inverted uniform", space: Space{"x": {Kind: Uniform, Low: 1, High: 0}}, wantErr: true},
		{name: "degenerate uniform", space: Space{"x": {Kind: Uniform, Low: 1, High: 1}}, wantErr: true},
		{name: "unknown kind", space: Space{"x": {Kind: "loguniform"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.space.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_space.json")

	s := Default()
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loaded.Save(path); err != nil {
		t.Fatalf("Save after Load: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("re-serialized search space differs:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
