package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to audit DB")
	last := flag.Int("last", 20, "show N most recent rows per table")
	kind := flag.String("kind", "all", "predictions, diagnoses or all")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" || (*kind != "all" && *kind != "predictions" && *kind != "diagnoses") {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/audit.db [--last N] [--kind predictions|diagnoses|all] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := run(st, *last, *kind, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region rows

type predictionRow struct {
	ID          string  `json:"id"`
	Crop        string  `json:"crop"`
	FarmSize    float64 `json:"farm_size"`
	Soil        float64 `json:"soil_factor"`
	Weather     float64 `json:"weather_factor"`
	FusionMode  string  `json:"fusion_mode"`
	Source      string  `json:"source"`
	Current     float64 `json:"current_yield"`
	Optimized   float64 `json:"optimized_yield"`
	Suitability float64 `json:"suitability_score"`
	Unit        string  `json:"unit"`
	CreatedAt   string  `json:"created_at"`
}

type diagnosisRow struct {
	ID         string  `json:"id"`
	ClassID    int     `json:"class_id"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	Digest     string  `json:"digest"`
	CreatedAt  string  `json:"created_at"`
}

type output struct {
	Predictions []predictionRow `json:"predictions,omitempty"`
	Diagnoses   []diagnosisRow  `json:"diagnoses,omitempty"`
}

func run(st *store.Store, last int, kind string, jsonOut bool) error {
	var out output

	if kind != "diagnoses" {
		recs, err := st.ListPredictions(last)
		if err != nil {
			return err
		}
		// store returns DESC, reverse for chronological
		out.Predictions = make([]predictionRow, len(recs))
		for i, r := range recs {
			out.Predictions[len(recs)-1-i] = predictionRow{
				ID:          r.ID,
				Crop:        r.CropType,
				FarmSize:    r.FarmSize,
				Soil:        r.SoilFactor,
				Weather:     r.WeatherFactor,
				FusionMode:  r.FusionMode,
				Source:      r.Source,
				Current:     r.CurrentYield,
				Optimized:   r.OptimizedYield,
				Suitability: r.SuitabilityScore,
				Unit:        r.Unit,
				CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
			}
		}
	}
	if kind != "predictions" {
		recs, err := st.ListDiagnoses(last)
		if err != nil {
			return err
		}
		out.Diagnoses = make([]diagnosisRow, len(recs))
		for i, r := range recs {
			out.Diagnoses[len(recs)-1-i] = diagnosisRow{
				ID:         r.ID,
				ClassID:    r.ClassID,
				Disease:    r.Disease,
				Confidence: r.ConfidencePct,
				Language:   r.Language,
				Digest:     r.Digest,
				CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
			}
		}
	}

	if jsonOut {
		return printJSON(out)
	}
	if kind != "diagnoses" {
		printPredictions(out.Predictions)
	}
	if kind == "all" {
		fmt.Println()
	}
	if kind != "predictions" {
		printDiagnoses(out.Diagnoses)
	}
	return nil
}

// #endregion rows

// #region output

func printPredictions(rows []predictionRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no predictions found")
		return
	}
	fmt.Printf("%-8s  %-12s  %6s  %6s  %6s  %-16s  %-9s  %9s  %9s  %5s  %s\n",
		"ID", "Crop", "Size", "Soil", "Wthr", "Mode", "Source", "Current", "Optimized", "Suit", "Time")
	fmt.Printf("%-8s+-%-12s+-%6s+-%6s+-%6s+-%-16s+-%-9s+-%9s+-%9s+-%5s+-%s\n",
		"--------", "------------", "------", "------", "------", "----------------", "---------",
		"---------", "---------", "-----", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-8s  %-12s  %6.2f  %6.3f  %6.3f  %-16s  %-9s  %9.2f  %9.2f  %5.1f  %s\n",
			shortID(r.ID), r.Crop, r.FarmSize, r.Soil, r.Weather, r.FusionMode, r.Source,
			r.Current, r.Optimized, r.Suitability, r.CreatedAt)
	}
}

func printDiagnoses(rows []diagnosisRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no diagnoses found")
		return
	}
	fmt.Printf("%-8s  %5s  %-36s  %6s  %-4s  %-8s  %s\n",
		"ID", "Class", "Disease", "Conf", "Lang", "Digest", "Time")
	fmt.Printf("%-8s+-%5s+-%-36s+-%6s+-%-4s+-%-8s+-%s\n",
		"--------", "-----", "------------------------------------", "------", "----", "--------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-8s  %5d  %-36s  %6.2f  %-4s  %-8s  %s\n",
			shortID(r.ID), r.ClassID, r.Disease, r.Confidence, r.Language, shortID(r.Digest), r.CreatedAt)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
