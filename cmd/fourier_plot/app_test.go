package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/fourier_plot_go/internal/config"
	"github.com/user/fourier_plot_go/internal/logger"
	"github.com/user/fourier_plot_go/internal/parser"
)

const fourierData = `43 10 0.43
43 100 0.4343
43 1000 0.434345
43 10000 0.43434545937892
20 10 0.21
20 100 0.201
20 1000 0.2
`

func newTestApp(t *testing.T, data string) (*App, *config.Config, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "fourier_data.txt")
	require.NoError(t, os.WriteFile(input, []byte(data), 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Input.Path = input
	cfg.Output.PlotPath = filepath.Join(dir, "out", "fourier_error.png")
	require.NoError(t, cfg.Validate())

	var buf bytes.Buffer
	l := log.New()
	logger.Setup(l, &buf, "debug", "text")

	return NewApp(cfg, l), cfg, &buf
}

func TestRunWritesPlot(t *testing.T) {
	app, cfg, logs := newTestApp(t, fourierData)

	require.NoError(t, app.Run())

	info, err := os.Stat(cfg.Output.PlotPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, logs.String(), "Aggregated 2 categories.")
}

func TestRunAllArtifacts(t *testing.T) {
	app, cfg, _ := newTestApp(t, fourierData)
	dir := filepath.Dir(cfg.Output.PlotPath)
	cfg.Output.HeatmapPath = filepath.Join(dir, "heat.png")
	cfg.Output.PDFPath = filepath.Join(dir, "report.pdf")

	require.NoError(t, app.Run())

	for _, path := range []string{cfg.Output.PlotPath, cfg.Output.HeatmapPath, cfg.Output.PDFPath} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestRunStrictAbortsOnMalformedLine(t *testing.T) {
	app, cfg, _ := newTestApp(t, "10 100 0.5\n10 100\n20 50 1.0\n")

	err := app.Run()
	require.Error(t, err)

	var pe *parser.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, parser.ErrFieldCount)

	_, statErr := os.Stat(cfg.Output.PlotPath)
	assert.True(t, os.IsNotExist(statErr), "no plot is written")
}

func TestRunLenientSkipsMalformedLine(t *testing.T) {
	app, cfg, logs := newTestApp(t, fourierData+"10 100\n")
	cfg.Input.Lenient = true

	require.NoError(t, app.Run())
	assert.Contains(t, logs.String(), "Skipped")
	assert.Contains(t, logs.String(), "line=8")
}

func TestRunMissingInput(t *testing.T) {
	app, cfg, _ := newTestApp(t, fourierData)
	cfg.Input.Path = filepath.Join(t.TempDir(), "missing.txt")

	err := app.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
