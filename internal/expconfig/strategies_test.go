package expconfig

import "testing"

func TestStrategiesSweepSet(t *testing.T) {
	sweep := Strategies(Maximize)
	if len(sweep) != 7 {
		t.Fatalf("sweep has %d strategies, want 7", len(sweep))
	}

	wantNames := []string{"tpe", "random", "anneal", "evolution", "smac", "metis", "hyperband"}
	for i, s := range sweep {
		if s.Name != wantNames[i] {
			t.Errorf("strategy %d = %s, want %s", i, s.Name, wantNames[i])
		}
	}
}

func TestStrategyApply(t *testing.T) {
	base := baseConfig()

	for _, s := range Strategies(Minimize) {
		cfg := s.Apply(base)

		if (cfg.Tuner == nil) == (cfg.Advisor == nil) {
			t.Errorf("%s: applied config does not have exactly one strategy block", s.Name)
			continue
		}

		var args map[string]any
		if cfg.Tuner != nil {
			args = cfg.Tuner.Args
		} else {
			args = cfg.Advisor.Args
		}
		if args["optimize_mode"] != "minimize" {
			t.Errorf("%s: optimize_mode = %v, want minimize", s.Name, args["optimize_mode"])
		}
	}
}

func TestHyperbandIsAdvisor(t *testing.T) {
	s, err := StrategyByName("hyperband", Maximize)
	if err != nil {
		t.Fatal(err)
	}
	cfg := s.Apply(baseConfig())
	if cfg.Advisor == nil {
		t.Fatal("hyperband should install an advisor block")
	}
	if cfg.Advisor.Args["R"] != 60 || cfg.Advisor.Args["eta"] != 3 {
		t.Errorf("hyperband resource budget = %v, want R=60 eta=3", cfg.Advisor.Args)
	}
}

func TestStrategyByNameUnknown(t *testing.T) {
	if _, err := StrategyByName("gridsearch", Maximize); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
