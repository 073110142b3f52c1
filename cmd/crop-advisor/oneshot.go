package main

import (
		"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/api"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

// #region predict
var (
	predictIn    api.PredictRequest
	predictTrace bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict yield for one field and print JSON",
	Example: `  crop-advisor predict --crop Rice --farm-size 2 --soil Alluvial --ph 7 \
    --rainfall 800 --temperature 25 --humidity 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if predictIn.FarmSize <= 0 {
			return fmt.Errorf("--farm-size must be greater than 0")
		}
		predictor, cleanup, err := buildPredictor(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := predictor.Predict(cmd.Context(), predictIn.ToDomain())
		if err != nil {
			return err
		}
		if !predictTrace {
			return printJSON(api.NewPredictResponse(out.Prediction))
		}
		return printJSON(tracedPrediction{
			PredictResponse: api.NewPredictResponse(out.Prediction),
			BaseYield:       out.Trace.BaseYield,
			SoilFactor:      out.Trace.SoilFactor,
			WeatherFactor:   out.Trace.WeatherFactor,
			FusionMode:      out.Trace.Fusion.Mode,
			Multiplier:      out.Trace.Fusion.Multiplier,
			Estimate:        out.Trace.Signal.Estimate,
			Suitability:     out.Trace.Signal.Suitability,
			Source:          out.Trace.Signal.Source,
		})
	},
}

type tracedPrediction struct {
	api.PredictResponse
	BaseYield     float64         `json:"baseYield"`
	SoilFactor    float64         `json:"soilFactor"`
	WeatherFactor float64         `json:"weatherFactor"`
	FusionMode    fusion.Mode     `json:"fusionMode"`
	Multiplier    float64         `json:"multiplier"`
	Estimate      float64         `json:"estimate"`
	Suitability   float64         `json:"suitability"`
	Source        ensemble.Source `json:"source"`
}

// #endregion predict

// #region diagnose
var (
	diagnoseFile    string
	diagnosePayload string
	diagnoseLang    string
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Classify a leaf image and print JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDiagnoser(cfg)
		if err != nil {
			return err
		}

		var res diagnosis.Result
		if diagnoseFile != "" {
			data, err := os.ReadFile(diagnoseFile)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			res = d.DiagnoseBytes(data, diagnoseLang)
		} else {
			res, err = d.Diagnose(diagnosePayload, diagnoseLang)
			if err != nil {
				return err
			}
		}
		return printJSON(api.NewDiseaseResponse(res))
	},
}

// #endregion diagnose

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
