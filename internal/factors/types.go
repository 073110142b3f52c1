package factors

// #region inputs
// SoilInput holds the soil attributes of a field. Out-of-range values are valid
// and land in the penalty branches.
type SoilInput struct {
	PH       float64
	SoilType string
}

// WeatherInput holds seasonal weather attributes.
type WeatherInput struct {
	Rainfall    float64 // mm
	Temperature float64 // °C
	Humidity    float64 // %
}

// #endregion inputs

// #region soil-set
// SoilSet is the set of soil types that earn the preferred-soil bonus.
// Matching is exact and case-sensitive.
type SoilSet map[string]struct{}

// NewSoilSet builds a SoilSet from names.
func NewSoilSet(names ...string) SoilSet {
	s := make(SoilSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether soilType is in the set.
func (s SoilSet) Contains(soilType string) bool {
	_, ok := s[soilType]
	return ok
}

// DefaultPreferredSoils returns {Alluvial, Black, Loamy}.
func DefaultPreferredSoils() SoilSet {
	return NewSoilSet("Alluvial", "Black", "Loamy")
}

// #endregion soil-set

// #region multipliers
const (
	optimalPHBonus   = 1.10
	adversePHPenalty = 0.85
	preferredSoil    = 1.05

	optimalRainBonus   = 1.10
	adverseRainPenalty = 0.85
	optimalTempBonus   = 1.05
	adverseTempPenalty = 0.90
	optimalHumidity    = 1.05
)

// #endregion multipliers
