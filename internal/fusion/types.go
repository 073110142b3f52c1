package fusion

// #region mode
// Mode names the branch the fusion policy took.
type Mode string

const (
	ModeWeatherDominant Mode = "weather_dominant" // soil favorable, weather strongly adverse
	ModeSoilDominant    Mode = "soil_dominant"    // weather favorable, soil strongly adverse
	ModeSynergy         Mode = "synergy"          // aligned or neutral signals compound
)

// #endregion mode

// #region config
// Config holds the thresholds and weights of the conflict policy.
type Config struct {
	FavorableAbove float64 // factor > this is favorable
	AdverseBelow   float64 // factor < this is strongly adverse
	DominantWeight float64 // weight of the dominating factor; the other gets 1 - this
}

// DefaultConfig returns the production policy: 1.0 / 0.9 / 0.6.
func DefaultConfig() Config {
	return Config{
		FavorableAbove: 1.0,
		AdverseBelow:   0.9,
		DominantWeight: 0.6,
	}
}

// #endregion config

// #region result
// Result is the output of one fusion.
type Result struct {
	Multiplier float64
	Value      float64 // base * Multiplier
	Mode       Mode
}

// #endregion result
