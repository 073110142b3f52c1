package fusion

// #region engine
// Engine applies the conflict-aware fusion policy.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Fuse combines soil and weather factors with the default policy and applies the
// multiplier to base.
func Fuse(base, soil, weather float64) Result {
	e := Engine{config: DefaultConfig()}
	return e.Fuse(base, soil, weather)
}

// Fuse combines soil and weather factors into one multiplier.
// A single strongly adverse dimension dominates an otherwise favorable one;
// everything else (both favorable, both adverse, neutral) multiplies.
// The two conflict branches are mutually exclusive whenever AdverseBelow <= FavorableAbove.
func (e *Engine) Fuse(base, soil, weather float64) Result {
	c := e.config
	var (
		mult float64
		mode Mode
	)
	switch {
	case soil > c.FavorableAbove && weather < c.AdverseBelow:
		mult = weighted(weather, soil, c.DominantWeight)
		mode = ModeWeatherDominant
	case weather > c.FavorableAbove && soil < c.AdverseBelow:
		mult = weighted(soil, weather, c.DominantWeight)
		mode = ModeSoilDominant
	default:
		mult = soil * weather
		mode = ModeSynergy
	}

	return Result{
		Multiplier: mult,
		Value:      base * mult,
		Mode:       mode,
	}
}

// #endregion engine

// #region helpers
func weighted(dominant, other, w float64) float64 {
	return dominant*w + other*(1-w)
}

// #endregion helpers
