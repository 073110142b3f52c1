package eval

import (
	"context"
	"math"
	"testing"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

func riceOutcome(t *testing.T) ensemble.Outcome {
	t.Helper()
	out, err := ensemble.NewPredictor(ensemble.DefaultCatalog(), nil, nil).Predict(context.Background(), ensemble.Request{
		CropType: "Rice", FarmSize: 2,
		Soil:    factors.SoilInput{PH: 7.0, SoilType: "Alluvial"},
		Weather: factors.WeatherInput{Rainfall: 800, Temperature: 25, Humidity: 60},
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	return out
}

func hasFailed(r EvalResult, name string) bool {
	for _, n := range r.Failed() {
		if n == name {
			return true
		}
	}
	return false
}

// #region prediction-tests
func TestEvalPassesOnPipelineOutput(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result := h.RunPrediction(riceOutcome(t))

	if !result.Passed {
		t.Fatalf("expected pass, got fail: %s", result.Reason)
	}
	if len(result.Metrics) != 5 {
		t.Fatalf("expected 5 metrics, got %d", len(result.Metrics))
	}
}

func TestEvalFailsOnInvertedYields(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	out := riceOutcome(t)
	out.Prediction.OptimizedYield = out.Prediction.CurrentYield - 1

	result := h.RunPrediction(out)
	if result.Passed {
		t.Fatal("expected fail on optimized < current")
	}
	if !hasFailed(result, "optimized_ge_current") {
		t.Fatalf("expected optimized_ge_current to fail, got %v", result.Failed())
	}
}

func TestEvalPredictionChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ensemble.Outcome)
		check  string
	}{
		{"suitability-high", func(o *ensemble.Outcome) { o.Prediction.SuitabilityScore = 120 }, "suitability_range"},
		{"suitability-negative", func(o *ensemble.Outcome) { o.Prediction.SuitabilityScore = -1 }, "suitability_range"},
		{"nan", func(o *ensemble.Outcome) { o.Prediction.ImprovementPct = math.NaN() }, "finite"},
		{"zero-guard", func(o *ensemble.Outcome) {
			o.Prediction.CurrentYield, o.Prediction.OptimizedYield, o.Prediction.ImprovementPct = 0, 0, 10
		}, "improvement_guard"},
		{"fusion-drift", func(o *ensemble.Outcome) { o.Trace.Fusion = fusion.Result{Multiplier: 1, Value: 99} }, "fusion_consistency"},
	}
	h := NewEvalHarness(DefaultEvalConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := riceOutcome(t)
			tt.mutate(&out)
			result := h.RunPrediction(out)
			if !hasFailed(result, tt.check) {
				t.Errorf("expected %s to fail, got %v (%s)", tt.check, result.Failed(), result.Reason)
			}
		})
	}
}

func TestEvalReasonCountsFailures(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	out := riceOutcome(t)
	out.Prediction.OptimizedYield = -1
	out.Prediction.SuitabilityScore = 500

	result := h.RunPrediction(out)
	want := "eval failed: 2 checks: "
	if len(result.Reason) < len(want) || result.Reason[:len(want)] != want {
		t.Errorf("unexpected reason %q", result.Reason)
	}
}

// #endregion prediction-tests

// #region diagnosis-tests
func TestEvalDiagnosis(t *testing.T) {
	tbl, err := diagnosis.DefaultTable()
	if err != nil {
		t.Fatal(err)
	}
	d := diagnosis.NewDiagnoser(tbl)
	h := NewEvalHarness(DefaultEvalConfig())

	for _, img := range []string{"leaf-image-1", "", "\x89PNG\r\n\x1a\n", "hello"} {
		res := d.DiagnoseBytes([]byte(img), "od")
		if r := h.RunDiagnosis(res, tbl.Classes()); !r.Passed {
			t.Errorf("image %q: %s", img, r.Reason)
		}
	}

	bad := diagnosis.Result{ClassID: 7, ConfidencePct: 99.5}
	r := h.RunDiagnosis(bad, 4)
	for _, name := range []string{"confidence_range", "class_range", "localized"} {
		if !hasFailed(r, name) {
			t.Errorf("expected %s to fail", name)
		}
	}
}

// #endregion diagnosis-tests
