package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/reportview/internal/loader"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/page"
)

var (
	verbose     bool
	noPdftotext bool
	missionPath string
)

var rootCmd = &cobra.Command{
	Use:           "reportctl",
	Short:         "Inspect and render collapsible report pages",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noPdftotext, "no-pdftotext", false, "do not fall back to pdftotext for PDF reports")
	rootCmd.PersistentFlags().StringVar(&missionPath, "mission", "", "mission data file (.yaml or .csv)")
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func missionData() (mission.Data, error) {
	if missionPath == "" {
		return mission.DefaultData(), nil
	}
	return mission.LoadFile(missionPath)
}

// openPage loads a report file and wires the page behavior onto it.
func openPage(path string) (*page.Page, error) {
	log := logger()
	doc, err := loader.LoadFile(path, loader.Options{PDFFallbackPdftotext: !noPdftotext})
	if err != nil {
		return nil, err
	}
	data, err := missionData()
	if err != nil {
		return nil, err
	}
	opts := page.DefaultOptions()
	opts.Mission = data
	return page.New(doc, opts, log)
}
