package replay

import (
	"context"
	"fmt"
	"math"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/eval"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

// #region types
// Scenario is a single recorded prediction request.
type Scenario struct {
	ID      string
	Request ensemble.Request
}

// Expected is the reference output of a scenario at wire precision.
type Expected struct {
	ID         string
	FusionMode fusion.Mode
	Prediction ensemble.YieldPrediction
}

// ReplayConfig bundles the fusion, catalog and eval settings of a run.
type ReplayConfig struct {
	FusionConfig fusion.Config
	Catalog      ensemble.Catalog
	EvalConfig   eval.EvalConfig
}

// DefaultReplayConfig returns the production settings.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		FusionConfig: fusion.DefaultConfig(),
		Catalog:      ensemble.DefaultCatalog(),
		EvalConfig:   eval.DefaultEvalConfig(),
	}
}

// ReplayResult captures the outcome of replaying one scenario.
type ReplayResult struct {
	ID      string
	Action  string // "pass" | "eval_fail" | "error"
	Reason  string
	Outcome ensemble.Outcome
	Rounded ensemble.YieldPrediction

	EvalResult *eval.EvalResult // nil on error
}

// Drift is one field whose replayed value differs from the reference.
type Drift struct {
	ID    string
	Field string
	Want  string
	Got   string
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Total       int
	Passed      int
	EvalFails   int
	Errors      int
	Drifted     int // scenarios with at least one drift
	DriftFields int
}

// #endregion types

// #region replay
// Replay runs every scenario through the predictor with the heuristic
// estimator and validates the outcome. Operates entirely in-memory.
func Replay(ctx context.Context, scenarios []Scenario, config ReplayConfig) []ReplayResult {
	predictor := ensemble.NewPredictor(config.Catalog, fusion.NewEngine(config.FusionConfig), ensemble.NewHeuristicEstimator())
	evalInst := eval.NewEvalHarness(config.EvalConfig)

	results := make([]ReplayResult, 0, len(scenarios))
	for _, sc := range scenarios {
		out, err := predictor.Predict(ctx, sc.Request)
		if err != nil {
			results = append(results, ReplayResult{ID: sc.ID, Action: "error", Reason: err.Error()})
			continue
		}

		evalResult := evalInst.RunPrediction(out)
		r := ReplayResult{
			ID:         sc.ID,
			Action:     "pass",
			Reason:     evalResult.Reason,
			Outcome:    out,
			Rounded:    ensemble.Round(out.Prediction),
			EvalResult: &evalResult,
		}
		if !evalResult.Passed {
			r.Action = "eval_fail"
		}
		results = append(results, r)
	}
	return results
}

// #endregion replay

// #region compare
// Compare matches results to expected outputs by ID. A reference with no
// result, or a result with no reference, is reported as a "missing" drift.
func Compare(results []ReplayResult, expected []Expected) []Drift {
	byID := make(map[string]ReplayResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	var drifts []Drift
	seen := make(map[string]bool, len(expected))
	for _, e := range expected {
		seen[e.ID] = true
		r, ok := byID[e.ID]
		if !ok || r.Action == "error" {
			drifts = append(drifts, Drift{ID: e.ID, Field: "missing", Want: "result", Got: "none"})
			continue
		}
		if e.FusionMode != "" && e.FusionMode != r.Outcome.Trace.Fusion.Mode {
			drifts = append(drifts, Drift{ID: e.ID, Field: "fusion_mode", Want: string(e.FusionMode), Got: string(r.Outcome.Trace.Fusion.Mode)})
		}
		want, got := e.Prediction, r.Rounded
		drifts = appendIfDiff(drifts, e.ID, "current_crop", want.CurrentYield, got.CurrentYield)
		drifts = appendIfDiff(drifts, e.ID, "optimized_crop", want.OptimizedYield, got.OptimizedYield)
		drifts = appendIfDiff(drifts, e.ID, "improvement", want.ImprovementPct, got.ImprovementPct)
		drifts = appendIfDiff(drifts, e.ID, "suitability_score", want.SuitabilityScore, got.SuitabilityScore)
		if want.Unit != got.Unit {
			drifts = append(drifts, Drift{ID: e.ID, Field: "unit", Want: string(want.Unit), Got: string(got.Unit)})
		}
	}
	for _, r := range results {
		if !seen[r.ID] {
			drifts = append(drifts, Drift{ID: r.ID, Field: "missing", Want: "none", Got: "result"})
		}
	}
	return drifts
}

// wire values are rounded to at most 2 decimals
const driftTolerance = 1e-6

func appendIfDiff(drifts []Drift, id, field string, want, got float64) []Drift {
	if math.Abs(want-got) <= driftTolerance {
		return drifts
	}
	return append(drifts, Drift{ID: id, Field: field, Want: fmt.Sprintf("%g", want), Got: fmt.Sprintf("%g", got)})
}

// Summarize computes aggregate stats from replay results and drifts.
func Summarize(results []ReplayResult, drifts []Drift) ReplaySummary {
	s := ReplaySummary{Total: len(results), DriftFields: len(drifts)}
	for _, r := range results {
		switch r.Action {
		case "pass":
			s.Passed++
		case "eval_fail":
			s.EvalFails++
		case "error":
			s.Errors++
		}
	}
	drifted := make(map[string]bool)
	for _, d := range drifts {
		drifted[d.ID] = true
	}
	s.Drifted = len(drifted)
	return s
}

// #endregion compare
