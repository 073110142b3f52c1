package eval

// #region eval-config
// EvalConfig holds the bounds outputs are validated against.
type EvalConfig struct {
	MinConfidence  float64 // inclusive
	MaxConfidence  float64 // exclusive
	MaxSuitability float64 // suitability score upper bound, inclusive
	Tolerance      float64 // float comparison slack
}

// DefaultEvalConfig returns the bounds of the production pipeline.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinConfidence:  85.0,
		MaxConfidence:  99.0,
		MaxSuitability: 100.0,
		Tolerance:      1e-9,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of one validation run.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// Failed returns the names of the failed checks.
func (r EvalResult) Failed() []string {
	var out []string
	for _, m := range r.Metrics {
		if !m.Pass {
			out = append(out, m.Name)
		}
	}
	return out
}

// #endregion eval-result
