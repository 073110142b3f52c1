package replay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
)

// #region fixture-tests

// TestFixture_Scenarios replays the reference scenarios and compares every
// rounded output and fusion mode. Any change to factor thresholds, fusion
// weights or the combination formula shows up here.
func TestFixture_Scenarios(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Scenarios) != len(f.ExpectedResults) {
		t.Fatalf("fixture has %d scenarios but %d expected results", len(f.Scenarios), len(f.ExpectedResults))
	}

	results := Replay(context.Background(), f.ToScenarios(), f.Config.ToReplayConfig())
	drifts := Compare(results, f.ToExpected())
	for _, d := range drifts {
		t.Errorf("%s: %s expected %s, got %s", d.ID, d.Field, d.Want, d.Got)
	}

	s := Summarize(results, drifts)
	if s.Passed != len(f.Scenarios) {
		t.Errorf("expected all %d scenarios to pass eval, got %d", len(f.Scenarios), s.Passed)
	}
}

func TestFixture_CoversEveryFusionMode(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	modes := make(map[string]bool)
	for _, e := range f.ExpectedResults {
		modes[e.FusionMode] = true
	}
	for _, m := range []string{"synergy", "weather_dominant", "soil_dominant"} {
		if !modes[m] {
			t.Errorf("fixture has no %s scenario", m)
		}
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestFixtureFromRecords_RoundTrip(t *testing.T) {
	recs := []store.PredictionRecord{
		{ID: "b", CropType: "Wheat", FarmSize: 1, SoilPH: 7, SoilType: "Black", Rainfall: 700, Temperature: 24, Humidity: 55,
			FusionMode: "synergy", CurrentYield: 5.123456, OptimizedYield: 6.0712, ImprovementPct: 18.5000001, SuitabilityScore: 85, Unit: "tons"},
		{ID: "a", CropType: "Rice", FarmSize: 2, SoilPH: 7, SoilType: "Alluvial", Rainfall: 800, Temperature: 25, Humidity: 60,
			FusionMode: "synergy", CurrentYield: 11.2575195, OptimizedYield: 13.3401606, ImprovementPct: 18.5, SuitabilityScore: 85, Unit: "tons"},
	}
	f := FixtureFromRecords("exported", recs)

	if len(f.Scenarios) != 2 || f.Scenarios[0].ID != "a" {
		t.Fatalf("expected oldest-first scenarios, got %+v", f.Scenarios)
	}
	if f.ExpectedResults[0].CurrentCrop != 11.26 || f.ExpectedResults[1].CurrentCrop != 5.12 {
		t.Errorf("expected rounded outputs, got %+v", f.ExpectedResults)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	if err := WriteFixture(f, path); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}
	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	// "a" is the Rice baseline and must replay without drift
	results := Replay(context.Background(), loaded.ToScenarios()[:1], loaded.Config.ToReplayConfig())
	if drifts := Compare(results, loaded.ToExpected()[:1]); len(drifts) != 0 {
		t.Errorf("unexpected drift: %+v", drifts)
	}
}

// #endregion fixture-tests
