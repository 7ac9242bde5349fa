// Package main is the entry point for the quill editing core.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/quilledit/quill/internal/config"
	"github.com/quilledit/quill/internal/editor"
	"github.com/quilledit/quill/internal/workspace"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		logLevel    string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Quill - modal editing core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quill [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("quill %s\n", version)
		return 0
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", logLevel)
		return 1
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	var cfg config.Config
	var diags []config.Diagnostic
	if configPath != "" {
		cfg, diags = config.LoadFile(configPath)
	} else {
		cfg, diags = config.Load()
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "config: %s\n", d)
	}

	ws := workspace.New(
		workspace.WithLogger(log),
		workspace.WithEditorOptions(
			editor.WithLogger(log),
			editor.WithIndentWidth(cfg.Editor.IndentWidth),
		),
	)
	defer ws.Close()

	for _, path := range flag.Args() {
		if _, err := ws.Open(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	for _, d := range ws.Documents() {
		doc := d.Editor().Document()
		fmt.Printf("%s: %d bytes, %d lines\n", d.Path(), doc.Len(), doc.LineCount())
	}
	return 0
}
