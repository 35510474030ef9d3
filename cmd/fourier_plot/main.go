package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/user/fourier_plot_go/internal/config"
	"github.com/user/fourier_plot_go/internal/logger"
)

var (
	configPath  = flag.String("config", "", "Path to configuration file (optional)")
	inputPath   = flag.String("input", "", "Experiment results file, overrides input.path")
	outputPath  = flag.String("output", "", "Plot output file, format from extension; overrides output.plot_path")
	heatmapPath = flag.String("heatmap", "", "Write an error heatmap PNG to this path")
	pdfPath     = flag.String("pdf", "", "Write a PDF report to this path")
	lenient     = flag.Bool("lenient", false, "Skip malformed lines instead of aborting")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	app := NewApp(cfg, log.StandardLogger())
	if err := app.Run(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// applyFlags copies explicitly set command line values over cfg.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *inputPath
		case "output":
			cfg.Output.PlotPath = *outputPath
		case "heatmap":
			cfg.Output.HeatmapPath = *heatmapPath
		case "pdf":
			cfg.Output.PDFPath = *pdfPath
		case "lenient":
			cfg.Input.Lenient = *lenient
		}
	})
}
