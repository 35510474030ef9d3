package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	"github.com/user/fourier_plot_go/internal/analysis"
	"github.com/user/fourier_plot_go/internal/config"
	"github.com/user/fourier_plot_go/internal/parser"
	"github.com/user/fourier_plot_go/internal/report"
)

// App runs the parse → aggregate → render pipeline for one configuration.
type App struct {
	cfg *config.Config
	log *log.Logger
}

// NewApp creates an App that reports progress through logger.
func NewApp(cfg *config.Config, logger *log.Logger) *App {
	return &App{cfg: cfg, log: logger}
}

func (a *App) sendStatus(format string, args ...interface{}) {
	a.log.Infof(format, args...)
}

// Run executes the whole pipeline. In strict mode any malformed input line
// aborts before a single artifact is written.
func (a *App) Run() error {
	cfg := a.cfg

	a.sendStatus("Parsing: %s", cfg.Input.Path)
	parsedData, err := parser.ParseFile(cfg.Input.Path, parser.Options{Lenient: cfg.Input.Lenient})
	if err != nil {
		return fmt.Errorf("error parsing input: %w", err)
	}
	a.sendStatus("Parsed %d records from %d lines.", len(parsedData.Records), parsedData.NumLines)
	for _, pe := range parsedData.ParseErrors {
		a.log.WithField("line", pe.Line).Warnf("Skipped: %v", pe.Err)
	}

	agg := analysis.NewAggregation()
	agg.LabelName = cfg.Plot.LabelName
	agg.LabelDivisor = cfg.Plot.LabelDivisor
	for _, rec := range parsedData.Records {
		agg.Add(rec)
	}
	series := agg.AllSeries()
	summaries := agg.Summarize()
	a.sendStatus("Aggregated %d categories.", agg.Len())
	for _, sum := range summaries {
		a.log.WithFields(log.Fields{
			"category":  sum.Category,
			"records":   sum.NumRecords,
			"reference": sum.Reference.SampleCount,
			"order":     sum.Order,
		}).Debug(sum.Label)
	}

	plotOpts := report.PlotOptions{
		Title:      cfg.Plot.Title,
		XLabel:     cfg.Plot.XLabel,
		YLabel:     cfg.Plot.YLabel,
		LogX:       cfg.Plot.LogX,
		LogY:       cfg.Plot.LogY,
		Grid:       cfg.Plot.Grid,
		LegendTop:  cfg.Plot.LegendTop,
		LegendLeft: cfg.Plot.LegendLeft,
		LineWidth:  vg.Points(1),
	}
	width := vg.Length(cfg.Plot.WidthInches) * vg.Inch
	height := vg.Length(cfg.Plot.HeightInches) * vg.Inch

	a.sendStatus("Generating plot...")
	p, err := report.NewErrorPlot(series, plotOpts)
	if err != nil {
		return fmt.Errorf("error generating plot: %w", err)
	}
	if err := ensureDir(cfg.Output.PlotPath); err != nil {
		return err
	}
	if err := report.SavePlot(p, cfg.Output.PlotPath, width, height); err != nil {
		return err
	}
	a.sendStatus("Plot written: %s", cfg.Output.PlotPath)

	var heatmap []byte
	if cfg.Output.HeatmapPath != "" || cfg.Output.PDFPath != "" {
		heatmap, err = report.CreateErrorHeatmap(series, report.DefaultHeatmapOptions())
		if err != nil {
			// the line plot already succeeded; a missing heatmap is not fatal
			a.log.Warnf("Error generating heatmap: %v", err)
		}
	}
	if cfg.Output.HeatmapPath != "" && heatmap != nil {
		if err := ensureDir(cfg.Output.HeatmapPath); err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Output.HeatmapPath, heatmap, 0o644); err != nil {
			return fmt.Errorf("failed to write heatmap: %w", err)
		}
		a.sendStatus("Heatmap written: %s", cfg.Output.HeatmapPath)
	}

	if cfg.Output.PDFPath != "" {
		a.sendStatus("Generating PDF: %s...", cfg.Output.PDFPath)
		plotPNG, err := report.RenderPNG(p, width, height)
		if err != nil {
			return err
		}

		skipped := make([]string, 0, len(parsedData.ParseErrors))
		for _, pe := range parsedData.ParseErrors {
			skipped = append(skipped, pe.Error())
		}
		input := report.ReportInput{
			InputPath:    cfg.Input.Path,
			NumLines:     parsedData.NumLines,
			NumRecords:   len(parsedData.Records),
			Summaries:    summaries,
			SkippedLines: skipped,
			Images: []report.ReportImage{
				{Key: "error_plot", Title: "Absolute Error vs Samples", Caption: cfg.Plot.YLabel, PNG: plotPNG},
				{Key: "error_heatmap", Title: "Error Heatmap", Caption: "log10 of the scaled absolute error per category and sample count", PNG: heatmap},
			},
		}
		if err := ensureDir(cfg.Output.PDFPath); err != nil {
			return err
		}
		if err := report.BuildPDFReport(cfg.Output.PDFPath, input); err != nil {
			return err
		}
		a.sendStatus("PDF report successfully generated: %s", cfg.Output.PDFPath)
	}

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
