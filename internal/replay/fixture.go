package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          FixtureConfig           `json:"config"`
	Scenarios       []FixtureScenario       `json:"scenarios"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureConfig mirrors fusion.Config with JSON tags. Zero values select defaults.
type FixtureConfig struct {
	FavorableAbove float64 `json:"favorable_above,omitempty"`
	AdverseBelow   float64 `json:"adverse_below,omitempty"`
	DominantWeight float64 `json:"dominant_weight,omitempty"`
}

// FixtureScenario uses the field names of the /predict request body.
type FixtureScenario struct {
	ID          string  `json:"id"`
	CropType    string  `json:"cropType"`
	Location    string  `json:"location,omitempty"`
	FarmSize    float64 `json:"farmSize"`
	SoilType    string  `json:"soilType"`
	SoilPH      float64 `json:"soilPh"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// FixtureExpectedResult uses the field names of the /predict response body.
type FixtureExpectedResult struct {
	ID               string  `json:"id"`
	FusionMode       string  `json:"fusion_mode,omitempty"`
	CurrentCrop      float64 `json:"currentCrop"`
	OptimizedCrop    float64 `json:"optimizedCrop"`
	Improvement      float64 `json:"improvement"`
	SuitabilityScore float64 `json:"suitabilityScore"`
	Unit             string  `json:"unit"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(f Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToReplayConfig overlays the fixture settings on the defaults.
func (fc FixtureConfig) ToReplayConfig() ReplayConfig {
	cfg := DefaultReplayConfig()
	if fc.FavorableAbove != 0 {
		cfg.FusionConfig.FavorableAbove = fc.FavorableAbove
	}
	if fc.AdverseBelow != 0 {
		cfg.FusionConfig.AdverseBelow = fc.AdverseBelow
	}
	if fc.DominantWeight != 0 {
		cfg.FusionConfig.DominantWeight = fc.DominantWeight
	}
	return cfg
}

// ToScenario converts a FixtureScenario to a domain Scenario.
func (fs FixtureScenario) ToScenario() Scenario {
	return Scenario{
		ID: fs.ID,
		Request: ensemble.Request{
			CropType: fs.CropType,
			Location: fs.Location,
			FarmSize: fs.FarmSize,
			Soil:     factors.SoilInput{PH: fs.SoilPH, SoilType: fs.SoilType},
			Weather:  factors.WeatherInput{Rainfall: fs.Rainfall, Temperature: fs.Temperature, Humidity: fs.Humidity},
		},
	}
}

// ToExpected converts a FixtureExpectedResult to a domain Expected.
func (fe FixtureExpectedResult) ToExpected() Expected {
	return Expected{
		ID:         fe.ID,
		FusionMode: fusion.Mode(fe.FusionMode),
		Prediction: ensemble.YieldPrediction{
			CurrentYield:     fe.CurrentCrop,
			OptimizedYield:   fe.OptimizedCrop,
			ImprovementPct:   fe.Improvement,
			SuitabilityScore: fe.SuitabilityScore,
			Unit:             ensemble.Unit(fe.Unit),
		},
	}
}

// ToScenarios converts all fixture scenarios.
func (f *Fixture) ToScenarios() []Scenario {
	out := make([]Scenario, len(f.Scenarios))
	for i := range f.Scenarios {
		out[i] = f.Scenarios[i].ToScenario()
	}
	return out
}

// ToExpected converts all expected results.
func (f *Fixture) ToExpected() []Expected {
	out := make([]Expected, len(f.ExpectedResults))
	for i := range f.ExpectedResults {
		out[i] = f.ExpectedResults[i].ToExpected()
	}
	return out
}

// #endregion fixture-loader

// #region fixture-export

// FixtureFromRecords builds a fixture from audit rows, oldest first. Expected
// values are the recorded outputs rounded to wire precision.
func FixtureFromRecords(description string, recs []store.PredictionRecord) Fixture {
	f := Fixture{Description: description}
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		f.Scenarios = append(f.Scenarios, FixtureScenario{
			ID:          r.ID,
			CropType:    r.CropType,
			Location:    r.Location,
			FarmSize:    r.FarmSize,
			SoilType:    r.SoilType,
			SoilPH:      r.SoilPH,
			Rainfall:    r.Rainfall,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
		})
		p := ensemble.Round(ensemble.YieldPrediction{
			CurrentYield:     r.CurrentYield,
			OptimizedYield:   r.OptimizedYield,
			ImprovementPct:   r.ImprovementPct,
			SuitabilityScore: r.SuitabilityScore,
			Unit:             ensemble.Unit(r.Unit),
		})
		f.ExpectedResults = append(f.ExpectedResults, FixtureExpectedResult{
			ID:               r.ID,
			FusionMode:       r.FusionMode,
			CurrentCrop:      p.CurrentYield,
			OptimizedCrop:    p.OptimizedYield,
			Improvement:      p.ImprovementPct,
			SuitabilityScore: p.SuitabilityScore,
			Unit:             string(p.Unit),
		})
	}
	return f
}

// #endregion fixture-export
