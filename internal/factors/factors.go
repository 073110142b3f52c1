package factors

// #region soil
// SoilFactor maps pH and soil type to a multiplicative score centered at 1.0.
// The pH adjustment and the soil-type bonus are independent.
func SoilFactor(ph float64, soilType string, preferred SoilSet) float64 {
	factor := 1.0
	switch {
	case ph >= 6.5 && ph <= 7.5:
		factor *= optimalPHBonus
	case ph < 5.5 || ph > 8.5:
		factor *= adversePHPenalty
	}

	if preferred.Contains(soilType) {
		factor *= preferredSoil
	}
	return factor
}

// Soil is SoilFactor over a SoilInput.
func Soil(in SoilInput, preferred SoilSet) float64 {
	return SoilFactor(in.PH, in.SoilType, preferred)
}

// #endregion soil

// #region weather
// WeatherFactor maps rainfall, temperature and humidity to a multiplicative score.
// Each check is evaluated against its own thresholds on a running product seeded at 1.0.
func WeatherFactor(in WeatherInput) float64 {
	factor := 1.0
	factor *= rainfallAdjustment(in.Rainfall)
	factor *= temperatureAdjustment(in.Temperature)
	factor *= humidityAdjustment(in.Humidity)
	return factor
}

func rainfallAdjustment(mm float64) float64 {
	switch {
	case mm >= 600 && mm <= 1000:
		return optimalRainBonus
	case mm < 400 || mm > 1500:
		return adverseRainPenalty
	}
	return 1.0
}

func temperatureAdjustment(c float64) float64 {
	switch {
	case c >= 20 && c <= 30:
		return optimalTempBonus
	case c < 10 || c > 40:
		return adverseTempPenalty
	}
	return 1.0
}

// No penalty branch for humidity.
func humidityAdjustment(pct float64) float64 {
	if pct >= 50 && pct <= 70 {
		return optimalHumidity
	}
	return 1.0
}

// #endregion weather
