package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
)

// #region eval-harness
// EvalHarness validates pipeline outputs against their invariants.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// #endregion eval-harness

// #region prediction-checks
// RunPrediction checks an unrounded prediction outcome.
func (h *EvalHarness) RunPrediction(out ensemble.Outcome) EvalResult {
	p, tr := out.Prediction, out.Trace
	tol := h.config.Tolerance
	var c checks

	// 1. All outputs finite
	finite := isFinite(p.CurrentYield) && isFinite(p.OptimizedYield) &&
		isFinite(p.ImprovementPct) && isFinite(p.SuitabilityScore)
	c.add("finite", boolValue(finite), finite, "non-finite output")

	// 2. Optimized never below current
	gap := p.OptimizedYield - p.CurrentYield
	c.add("optimized_ge_current", gap, gap >= -tol,
		fmt.Sprintf("optimized %.4f below current %.4f", p.OptimizedYield, p.CurrentYield))

	// 3. Suitability score in [0, max]
	s := p.SuitabilityScore
	c.add("suitability_range", s, s >= -tol && s <= h.config.MaxSuitability+tol,
		fmt.Sprintf("suitability %.4f outside [0, %.0f]", s, h.config.MaxSuitability))

	// 4. Improvement is zero when current is zero
	guard := p.CurrentYield != 0 || p.ImprovementPct == 0
	c.add("improvement_guard", p.ImprovementPct, guard,
		fmt.Sprintf("improvement %.4f with zero current yield", p.ImprovementPct))

	// 5. Fused value consistent with base and multiplier
	want := tr.BaseYield * tr.Fusion.Multiplier
	drift := math.Abs(tr.Fusion.Value - want)
	c.add("fusion_consistency", drift, drift <= tol*math.Max(1, math.Abs(want)),
		fmt.Sprintf("fused %.6f != base*multiplier %.6f", tr.Fusion.Value, want))

	return c.result()
}

// #endregion prediction-checks

// #region diagnosis-checks
// RunDiagnosis checks a diagnosis against the confidence band and class count.
func (h *EvalHarness) RunDiagnosis(res diagnosis.Result, classes int) EvalResult {
	var c checks

	conf := res.ConfidencePct
	c.add("confidence_range", conf, conf >= h.config.MinConfidence && conf < h.config.MaxConfidence,
		fmt.Sprintf("confidence %.2f outside [%.0f, %.0f)", conf, h.config.MinConfidence, h.config.MaxConfidence))

	c.add("class_range", float64(res.ClassID), res.ClassID >= 0 && res.ClassID < max(classes, 1),
		fmt.Sprintf("class %d outside [0, %d)", res.ClassID, classes))

	c.add("localized", boolValue(res.Disease != ""), res.Disease != "", "empty disease text")

	return c.result()
}

// #endregion diagnosis-checks

// #region helpers
type checks struct {
	metrics []EvalMetric
	fails   []string
}

func (c *checks) add(name string, value float64, pass bool, failReason string) {
	c.metrics = append(c.metrics, EvalMetric{Name: name, Value: value, Pass: pass})
	if !pass {
		c.fails = append(c.fails, failReason)
	}
}

func (c *checks) result() EvalResult {
	reason := "all checks passed"
	switch len(c.fails) {
	case 0:
	case 1:
		reason = fmt.Sprintf("eval failed: %s", c.fails[0])
	default:
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(c.fails), c.fails[0])
	}
	return EvalResult{
		Passed:  len(c.fails) == 0,
		Metrics: c.metrics,
		Reason:  reason,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
