package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-docx2html/internal/config"
)

// envPrefix marks the variables the CLI reads.
const envPrefix = "DOCX2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // DOCX2HTML_CONFIG: config file name or path
	Style      string        // DOCX2HTML_STYLE: style name or .css path
	Timeout    time.Duration // DOCX2HTML_TIMEOUT: PDF generation timeout

	OutputDir string // DOCX2HTML_OUTPUT_DIR: default output directory
	DebugDir  string // DOCX2HTML_DEBUG_DIR: snapshot directory
	AssetPath string // DOCX2HTML_ASSET_PATH: custom asset directory
	Lang      string // DOCX2HTML_LANG: html lang attribute

	PageSize string // DOCX2HTML_PAGE_SIZE: a4, letter, legal
	Workers  int    // DOCX2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid DOCX2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCX2HTML_CONFIG":     true,
	"DOCX2HTML_STYLE":      true,
	"DOCX2HTML_TIMEOUT":    true,
	"DOCX2HTML_OUTPUT_DIR": true,
	"DOCX2HTML_DEBUG_DIR":  true,
	"DOCX2HTML_ASSET_PATH": true,
	"DOCX2HTML_LANG":       true,
	"DOCX2HTML_PAGE_SIZE":  true,
	"DOCX2HTML_WORKERS":    true,
	"DOCX2HTML_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("DOCX2HTML_CONFIG"),
		Style:      os.Getenv("DOCX2HTML_STYLE"),
		OutputDir:  os.Getenv("DOCX2HTML_OUTPUT_DIR"),
		DebugDir:   os.Getenv("DOCX2HTML_DEBUG_DIR"),
		AssetPath:  os.Getenv("DOCX2HTML_ASSET_PATH"),
		Lang:       os.Getenv("DOCX2HTML_LANG"),
		PageSize:   os.Getenv("DOCX2HTML_PAGE_SIZE"),
	}

	if timeout := os.Getenv("DOCX2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("DOCX2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized DOCX2HTML_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values the config file left empty.
// Flags are merged afterwards, so the order is:
// CLI flags > config file > env vars > defaults.
// The timeout is the exception, see resolveTimeout.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}
	if env.DebugDir != "" && cfg.Debug.Dir == "" {
		cfg.Debug.Dir = env.DebugDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Lang != "" && (cfg.Lang == "" || cfg.Lang == config.DefaultConfig().Lang) {
		cfg.Lang = env.Lang
	}
	if env.PageSize != "" && cfg.PDF.PageSize == "" {
		cfg.PDF.PageSize = env.PageSize
	}
}
