package api

import (
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"
)

// #region predict
// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	CropType    string  `json:"cropType"`
	Location    string  `json:"location"`
	FarmSize    float64 `json:"farmSize"`
	SoilType    string  `json:"soilType"`
	SoilPH      float64 `json:"soilPh"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// ToDomain converts the wire request.
func (r PredictRequest) ToDomain() ensemble.Request {
	return ensemble.Request{
		CropType: r.CropType,
		Location: r.Location,
		FarmSize: r.FarmSize,
		Soil:     factors.SoilInput{PH: r.SoilPH, SoilType: r.SoilType},
		Weather:  factors.WeatherInput{Rainfall: r.Rainfall, Temperature: r.Temperature, Humidity: r.Humidity},
	}
}

// predictBody is how /predict decodes PredictRequest. A nil number was absent
// (or null) in the JSON body.
type predictBody struct {
	CropType    string   `json:"cropType"`
	Location    string   `json:"location"`
	FarmSize    *float64 `json:"farmSize"`
	SoilType    string   `json:"soilType"`
	SoilPH      *float64 `json:"soilPh"`
	Rainfall    *float64 `json:"rainfall"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// missing lists the absent numeric fields by JSON name.
func (b predictBody) missing() []string {
	var out []string
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"farmSize", b.FarmSize},
		{"soilPh", b.SoilPH},
		{"rainfall", b.Rainfall},
		{"temperature", b.Temperature},
		{"humidity", b.Humidity},
	} {
		if f.v == nil {
			out = append(out, f.name)
		}
	}
	return out
}

// request dereferences the numbers; call after missing returns nothing.
func (b predictBody) request() PredictRequest {
	return PredictRequest{
		CropType:    b.CropType,
		Location:    b.Location,
		FarmSize:    *b.FarmSize,
		SoilType:    b.SoilType,
		SoilPH:      *b.SoilPH,
		Rainfall:    *b.Rainfall,
		Temperature: *b.Temperature,
		Humidity:    *b.Humidity,
	}
}

// PredictResponse is the body returned by POST /predict.
type PredictResponse struct {
	CurrentCrop      float64 `json:"currentCrop"`
	OptimizedCrop    float64 `json:"optimizedCrop"`
	Improvement      float64 `json:"improvement"`
	SuitabilityScore float64 `json:"suitabilityScore"`
	Unit             string  `json:"unit"`
}

// NewPredictResponse rounds p to wire precision.
func NewPredictResponse(p ensemble.YieldPrediction) PredictResponse {
	r := ensemble.Round(p)
	return PredictResponse{
		CurrentCrop:      r.CurrentYield,
		OptimizedCrop:    r.OptimizedYield,
		Improvement:      r.ImprovementPct,
		SuitabilityScore: r.SuitabilityScore,
		Unit:             string(r.Unit),
	}
}

// #endregion predict

// #region diagnosis
// AnalyzeRequest is the body of POST /analyze-disease.
type AnalyzeRequest struct {
	Image    string `json:"image"`
	Language string `json:"language"`
}

type analyzeBody struct {
	Image    *string `json:"image"`
	Language string  `json:"language"`
}

// DiseaseResponse is the body returned by POST /analyze-disease.
type DiseaseResponse struct {
	Disease    string              `json:"disease"`
	Confidence float64             `json:"confidence"`
	Severity   string              `json:"severity"`
	Symptoms   []string            `json:"symptoms"`
	Treatment  diagnosis.Treatment `json:"treatment"`
	Prevention string              `json:"prevention"`
}

// NewDiseaseResponse rounds the confidence to one decimal.
func NewDiseaseResponse(r diagnosis.Result) DiseaseResponse {
	return DiseaseResponse{
		Disease:    r.Disease,
		Confidence: r.RoundedConfidence(),
		Severity:   r.Severity,
		Symptoms:   r.Symptoms,
		Treatment:  r.Treatment,
		Prevention: r.Prevention,
	}
}

// #endregion diagnosis

// #region errors
// ErrorResponse is the error body for 4xx and 5xx responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// #endregion errors
