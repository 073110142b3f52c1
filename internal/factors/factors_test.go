package factors

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

// #region soil-tests
func TestSoilFactor(t *testing.T) {
	preferred := DefaultPreferredSoils()
	tests := []struct {
		name     string
		ph       float64
		soilType string
		want     float64
	}{
		{"optimal-lower-edge", 6.5, "Red", 1.10},
		{"optimal-upper-edge", 7.5, "Red", 1.10},
		{"optimal-preferred", 7.0, "Alluvial", 1.10 * 1.05},
		{"acidic-penalty", 5.4, "Red", 0.85},
		{"alkaline-penalty", 8.6, "Black", 0.85 * 1.05},
		{"neutral-band-low", 5.5, "Red", 1.0},
		{"neutral-band-mid", 6.0, "Loamy", 1.05},
		{"neutral-band-high", 8.5, "Red", 1.0},
		{"case-sensitive-soil", 7.0, "alluvial", 1.10},
		{"empty-soil", 7.0, "", 1.10},
		{"extreme-ph", -3, "Clay", 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SoilFactor(tt.ph, tt.soilType, preferred)
			if !approx(got, tt.want) {
				t.Errorf("SoilFactor(%v, %q) = %v, want %v", tt.ph, tt.soilType, got, tt.want)
			}
		})
	}
}

func TestSoilFactor_OptimalDominatesAdverse(t *testing.T) {
	preferred := DefaultPreferredSoils()
	for _, soil := range []string{"Alluvial", "Sandy", ""} {
		for ph := 6.5; ph <= 7.5; ph += 0.1 {
			for _, bad := range []float64{0, 3.2, 5.49, 8.51, 10, 14} {
				if SoilFactor(ph, soil, preferred) < SoilFactor(bad, soil, preferred) {
					t.Fatalf("pH %.2f should dominate %.2f for soil %q", ph, bad, soil)
				}
			}
		}
	}
}

func TestSoilFactor_NilSet(t *testing.T) {
	if got := SoilFactor(7.0, "Alluvial", nil); !approx(got, 1.10) {
		t.Errorf("nil preferred set should give no soil bonus, got %v", got)
	}
}

func TestSoil_MatchesSoilFactor(t *testing.T) {
	in := SoilInput{PH: 7.0, SoilType: "Black"}
	if Soil(in, DefaultPreferredSoils()) != SoilFactor(7.0, "Black", DefaultPreferredSoils()) {
		t.Error("Soil and SoilFactor disagree")
	}
}

// #endregion soil-tests

// #region weather-tests
func TestWeatherFactor(t *testing.T) {
	tests := []struct {
		name string
		in   WeatherInput
		want float64
	}{
		{"all-optimal", WeatherInput{800, 25, 60}, 1.10 * 1.05 * 1.05},
		{"rain-edges", WeatherInput{600, 15, 40}, 1.10},
		{"rain-upper-edge", WeatherInput{1000, 15, 40}, 1.10},
		{"drought", WeatherInput{399, 15, 40}, 0.85},
		{"flood", WeatherInput{1501, 15, 40}, 0.85},
		{"rain-neutral", WeatherInput{450, 15, 40}, 1.0},
		{"cold", WeatherInput{450, 9, 40}, 0.90},
		{"heat", WeatherInput{450, 41, 40}, 0.90},
		{"temp-edges", WeatherInput{450, 20, 70}, 1.05 * 1.05},
		{"humidity-high-no-penalty", WeatherInput{450, 15, 95}, 1.0},
		{"all-adverse", WeatherInput{100, 45, 10}, 0.85 * 0.90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeatherFactor(tt.in)
			if !approx(got, tt.want) {
				t.Errorf("WeatherFactor(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeatherFactor_OrderInvariant(t *testing.T) {
	inputs := []WeatherInput{
		{800, 25, 60}, {100, 45, 10}, {1200, 5, 55}, {650, 35, 80},
	}
	for _, in := range inputs {
		r := rainfallAdjustment(in.Rainfall)
		tc := temperatureAdjustment(in.Temperature)
		h := humidityAdjustment(in.Humidity)
		orders := [][3]float64{{r, tc, h}, {r, h, tc}, {tc, r, h}, {tc, h, r}, {h, r, tc}, {h, tc, r}}
		want := WeatherFactor(in)
		for _, o := range orders {
			got := 1.0 * o[0] * o[1] * o[2]
			if !approx(got, want) {
				t.Errorf("order %v: got %v, want %v", o, got, want)
			}
		}
	}
}

// #endregion weather-tests
