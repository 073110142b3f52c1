package ensemble

import "github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"

// #region catalog
// Catalog holds the collaborator-owned crop constants.
type Catalog struct {
	BaseYields       map[string]float64 // per-hectare base yield by crop type
	DefaultBaseYield float64            // used for unknown crops
	BulkCrops        map[string]struct{}
	PreferredSoils   factors.SoilSet
}

// DefaultCatalog returns the production crop table.
func DefaultCatalog() Catalog {
	return Catalog{
		BaseYields: map[string]float64{
			"Rice":      3.8,
			"Wheat":     3.5,
			"Maize":     3.2,
			"Cotton":    2.0,
			"Sugarcane": 6.5,
		},
		DefaultBaseYield: 3.0,
		BulkCrops: map[string]struct{}{
			"Rice": {}, "Wheat": {}, "Maize": {}, "Sugarcane": {}, "Cotton": {},
		},
		PreferredSoils: factors.DefaultPreferredSoils(),
	}
}

// BaseYield returns the base yield for cropType, or DefaultBaseYield.
func (c Catalog) BaseYield(cropType string) float64 {
	if v, ok := c.BaseYields[cropType]; ok {
		return v
	}
	return c.DefaultBaseYield
}

// UnitFor returns tons for bulk crops and quintals otherwise.
func (c Catalog) UnitFor(cropType string) Unit {
	if _, ok := c.BulkCrops[cropType]; ok {
		return UnitTons
	}
	return UnitQuintals
}

// #endregion catalog
