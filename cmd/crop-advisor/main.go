package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/config"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/logging"
)

var (
	configPath string
	envFile    string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "crop-advisor",
	Short: "Crop yield prediction and leaf disease diagnosis service",
	Long: `crop-advisor fuses soil and weather suitability into a yield estimate,
blends it with a secondary estimator and serves the result over HTTP.

It also classifies leaf images into a fixed disease table with localized
treatment advice.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	predictCmd.Flags().StringVar(&predictIn.CropType, "crop", "", "crop type (required)")
	predictCmd.Flags().StringVar(&predictIn.Location, "location", "", "free-form location")
	predictCmd.Flags().Float64Var(&predictIn.FarmSize, "farm-size", 1, "farm size in hectares")
	predictCmd.Flags().StringVar(&predictIn.SoilType, "soil", "", "soil type")
	predictCmd.Flags().Float64Var(&predictIn.SoilPH, "ph", 7, "soil pH")
	predictCmd.Flags().Float64Var(&predictIn.Rainfall, "rainfall", 0, "seasonal rainfall in mm")
	predictCmd.Flags().Float64Var(&predictIn.Temperature, "temperature", 0, "average temperature in °C")
	predictCmd.Flags().Float64Var(&predictIn.Humidity, "humidity", 0, "average humidity in %")
	predictCmd.Flags().BoolVar(&predictTrace, "trace", false, "include intermediate factors in the output")
	_ = predictCmd.MarkFlagRequired("crop")

	diagnoseCmd.Flags().StringVar(&diagnoseFile, "file", "", "path to an image file")
	diagnoseCmd.Flags().StringVar(&diagnosePayload, "base64", "", "base64 image payload, optionally a data URL")
	diagnoseCmd.Flags().StringVar(&diagnoseLang, "lang", "", "language code (en, hi, od, te)")
	diagnoseCmd.MarkFlagsOneRequired("file", "base64")
	diagnoseCmd.MarkFlagsMutuallyExclusive("file", "base64")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(diagnoseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
