package fusion

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFuseWeatherDominates(t *testing.T) {
	r := Fuse(100, 1.2, 0.5)
	if r.Mode != ModeWeatherDominant {
		t.Fatalf("expected %s, got %s", ModeWeatherDominant, r.Mode)
	}
	if !approx(r.Value, 78.0) {
		t.Fatalf("expected 78.0, got %v", r.Value)
	}
	if !approx(r.Multiplier, 0.78) {
		t.Fatalf("expected multiplier 0.78, got %v", r.Multiplier)
	}
}

func TestFuseSoilDominates(t *testing.T) {
	r := Fuse(100, 0.85, 1.2)
	if r.Mode != ModeSoilDominant {
		t.Fatalf("expected %s, got %s", ModeSoilDominant, r.Mode)
	}
	want := 100 * (0.6*0.85 + 0.4*1.2)
	if !approx(r.Value, want) {
		t.Fatalf("expected %v, got %v", want, r.Value)
	}
}

func TestFuseSynergy(t *testing.T) {
	r := Fuse(100, 1.1, 1.1)
	if r.Mode != ModeSynergy {
		t.Fatalf("expected synergy, got %s", r.Mode)
	}
	if !approx(r.Value, 121.0) {
		t.Fatalf("expected 121.0, got %v", r.Value)
	}
}

func TestFuseBranches(t *testing.T) {
	tests := []struct {
		name    string
		soil    float64
		weather float64
		want    Mode
	}{
		{"both-favorable", 1.155, 1.21275, ModeSynergy},
		{"both-adverse", 0.85, 0.765, ModeSynergy},
		{"both-neutral", 1.0, 1.0, ModeSynergy},
		{"soil-neutral-weather-adverse", 1.0, 0.5, ModeSynergy},
		{"weather-mildly-adverse", 1.155, 0.9, ModeSynergy},
		{"weather-strongly-adverse", 1.155, 0.765, ModeWeatherDominant},
		{"soil-mildly-adverse", 0.9, 1.1, ModeSynergy},
		{"soil-strongly-adverse", 0.85, 1.05, ModeSoilDominant},
		{"weather-neutral-soil-adverse", 0.85, 1.0, ModeSynergy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fuse(1, tt.soil, tt.weather)
			if got.Mode != tt.want {
				t.Errorf("Fuse(1, %v, %v) mode = %s, want %s", tt.soil, tt.weather, got.Mode, tt.want)
			}
		})
	}
}

func TestFuseZeroBase(t *testing.T) {
	for _, f := range [][2]float64{{1.2, 0.5}, {0.8, 1.2}, {1.1, 1.1}} {
		if r := Fuse(0, f[0], f[1]); r.Value != 0 {
			t.Errorf("zero base should yield 0, got %v for %v", r.Value, f)
		}
	}
}

func TestEngineCustomWeights(t *testing.T) {
	e := NewEngine(Config{FavorableAbove: 1.0, AdverseBelow: 0.9, DominantWeight: 0.75})
	r := e.Fuse(10, 1.2, 0.5)
	want := 10 * (0.75*0.5 + 0.25*1.2)
	if !approx(r.Value, want) {
		t.Fatalf("expected %v, got %v", want, r.Value)
	}
}

func TestFuseMatchesDefaultEngine(t *testing.T) {
	e := NewEngine(DefaultConfig())
	for _, tc := range [][3]float64{{100, 1.3, 0.6}, {100, 0.6, 1.3}, {3.8, 1.155, 1.21275}, {2, 0.8, 0.8}} {
		if got, want := Fuse(tc[0], tc[1], tc[2]), e.Fuse(tc[0], tc[1], tc[2]); got != want {
			t.Errorf("Fuse%v: got %+v, engine %+v", tc, got, want)
		}
	}
}
