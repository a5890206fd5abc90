package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel().

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-docx2html/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("DOCX2HTML_CONFIG", "/path/to/config.yaml")
	t.Setenv("DOCX2HTML_STYLE", "plain")
	t.Setenv("DOCX2HTML_TIMEOUT", "2m")
	t.Setenv("DOCX2HTML_OUTPUT_DIR", "/out")
	t.Setenv("DOCX2HTML_DEBUG_DIR", "/log")
	t.Setenv("DOCX2HTML_ASSET_PATH", "/assets")
	t.Setenv("DOCX2HTML_LANG", "fr")
	t.Setenv("DOCX2HTML_PAGE_SIZE", "a4")
	t.Setenv("DOCX2HTML_WORKERS", "4")

	got := loadEnvConfig()
	want := &envConfig{
		ConfigPath: "/path/to/config.yaml",
		Style:      "plain",
		Timeout:    2 * time.Minute,
		OutputDir:  "/out",
		DebugDir:   "/log",
		AssetPath:  "/assets",
		Lang:       "fr",
		PageSize:   "a4",
		Workers:    4,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(envConfig{})); diff != "" {
		t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvConfig_InvalidValuesIgnored(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		workers string
	}{
		{"garbage", "soon", "many"},
		{"negative", "-5s", "-2"},
		{"zero", "0s", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DOCX2HTML_TIMEOUT", tt.timeout)
			t.Setenv("DOCX2HTML_WORKERS", tt.workers)

			cfg := loadEnvConfig()
			if cfg.Timeout != 0 {
				t.Errorf("Timeout = %v, want 0", cfg.Timeout)
			}
			if cfg.Workers != 0 {
				t.Errorf("Workers = %d, want 0", cfg.Workers)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("DOCX2HTML_STYEL", "plain")
	t.Setenv("DOCX2HTML_STYLE", "plain")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "DOCX2HTML_STYEL") {
		t.Errorf("expected warning for DOCX2HTML_STYEL, got %q", out)
	}
	if strings.Contains(out, "DOCX2HTML_STYLE ") {
		t.Errorf("known variable should not warn, got %q", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Style:     "plain",
		DebugDir:  "/log",
		AssetPath: "/assets",
		Lang:      "fr",
		PageSize:  "a4",
	}

	t.Run("fills empty values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		want := config.DefaultConfig()
		want.Style = "plain"
		want.Debug.Dir = "/log"
		want.Assets.BasePath = "/assets"
		want.Lang = "fr"
		want.PDF.PageSize = "a4"
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("applyEnvConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("config file wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Style = "spec"
		cfg.Lang = "de"
		cfg.PDF.PageSize = "legal"
		applyEnvConfig(env, cfg)

		if cfg.Style != "spec" || cfg.Lang != "de" || cfg.PDF.PageSize != "legal" {
			t.Errorf("config values overridden: style=%q lang=%q pageSize=%q", cfg.Style, cfg.Lang, cfg.PDF.PageSize)
		}
	})
}
