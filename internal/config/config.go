// Package config loads and validates YAML conversion settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-docx2html/internal/fileutil"
	"github.com/alnah/go-docx2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// AppName names the per-user config directory.
const AppName = "go-docx2html"

// Field length limits.
const (
	MaxTitleLength     = 200
	MaxLangLength      = 35   // BCP 47 tags stay well below this
	MaxPathLength      = 4096 // style, stylesheetHref, debug.dir, assets.basePath
	MaxNoticeLength    = 10000
	MaxTOCTitleLength  = 100
	MaxIDLength        = 200 // section ids in redirects
	MaxStyleNameLength = 100 // Word style ids and tag targets
)

// DefaultTOCDepth is the heading depth listed in the table of contents.
const DefaultTOCDepth = 3

// Config holds all configuration for one conversion.
type Config struct {
	Title          string            `yaml:"title"`          // Empty = first section heading
	Lang           string            `yaml:"lang"`           // html lang attribute (default: "en")
	Style          string            `yaml:"style"`          // Asset name or path to a .css file (empty = none)
	StylesheetHref string            `yaml:"stylesheetHref"` // Link target (default: derived from style)
	Notice         string            `yaml:"notice"`         // Markdown shown above the contents
	NoticeName     string            `yaml:"noticeName"`     // Notice asset, used when notice is empty
	TOC            TOCConfig         `yaml:"toc"`
	Sections       SectionsConfig    `yaml:"sections"`
	Styles         map[string]string `yaml:"styles"` // Word style id -> "tag.class", "@lhs", "@rhs"
	Code           CodeConfig        `yaml:"code"`
	Links          LinksConfig       `yaml:"links"`
	Assets         AssetsConfig      `yaml:"assets"`
	Debug          DebugConfig       `yaml:"debug"`
	PDF            PDFConfig         `yaml:"pdf"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Title    string `yaml:"title"`    // Default "Contents"
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// SectionsConfig defines section numbering and legacy anchors.
type SectionsConfig struct {
	Number    bool              `yaml:"number"`    // Generate numbers for unnumbered headings
	Redirects map[string]string `yaml:"redirects"` // Obsolete id -> current id
}

// CodeConfig defines code block highlighting.
type CodeConfig struct {
	Language string `yaml:"language"` // chroma lexer (default: "javascript")
	Style    string `yaml:"style"`    // chroma style inlined in the head (empty = none)
}

// LinksConfig defines extra phrase links.
type LinksConfig struct {
	Phrases map[string]string `yaml:"phrases"` // Phrase -> section title
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DebugConfig defines the per-pass snapshot directory.
type DebugConfig struct {
	Dir string `yaml:"dir"` // Empty = no snapshots
}

// PDFConfig defines the optional PDF rendering.
type PDFConfig struct {
	Timeout     string  `yaml:"timeout"`     // Go duration, e.g. "90s" (default: 30s)
	PageSize    string  `yaml:"pageSize"`    // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// langPattern accepts BCP 47 shaped tags such as "en", "en-US", "zh-Hant-TW".
var langPattern = regexp.MustCompile(`^[A-Za-z]{2,8}(-[A-Za-z0-9]{1,8})*$`)

// idPattern accepts HTML ids the section passes generate or accept.
var idPattern = regexp.MustCompile(`^[^\s"'<>&]+$`)

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for library users
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", c.Title, MaxTitleLength},
		{"lang", c.Lang, MaxLangLength},
		{"style", c.Style, MaxPathLength},
		{"stylesheetHref", c.StylesheetHref, MaxPathLength},
		{"notice", c.Notice, MaxNoticeLength},
		{"noticeName", c.NoticeName, MaxStyleNameLength},
		{"toc.title", c.TOC.Title, MaxTOCTitleLength},
		{"code.language", c.Code.Language, MaxStyleNameLength},
		{"code.style", c.Code.Style, MaxStyleNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"debug.dir", c.Debug.Dir, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Lang != "" && !langPattern.MatchString(c.Lang) {
		return fmt.Errorf("%w: lang: %q is not a language tag", ErrInvalidField, c.Lang)
	}

	if c.TOC.MaxDepth != 0 && (c.TOC.MaxDepth < 1 || c.TOC.MaxDepth > 6) {
		return fmt.Errorf("%w: toc.maxDepth: must be between 1 and 6, got %d", ErrInvalidField, c.TOC.MaxDepth)
	}

	for _, from := range sortedKeys(c.Sections.Redirects) {
		to := c.Sections.Redirects[from]
		if len(from) > MaxIDLength || !idPattern.MatchString(from) {
			return fmt.Errorf("%w: sections.redirects: invalid id %q", ErrInvalidField, from)
		}
		// An empty target marks an anchor with no successor.
		if to != "" && (len(to) > MaxIDLength || !idPattern.MatchString(to)) {
			return fmt.Errorf("%w: sections.redirects.%s: invalid id %q", ErrInvalidField, from, to)
		}
	}

	for _, id := range sortedKeys(c.Styles) {
		if id == "" || len(id) > MaxStyleNameLength {
			return fmt.Errorf("%w: styles: invalid style id %q", ErrInvalidField, id)
		}
		if err := validateFieldLength("styles."+id, c.Styles[id], MaxStyleNameLength); err != nil {
			return err
		}
	}

	for _, phrase := range sortedKeys(c.Links.Phrases) {
		if strings.TrimSpace(phrase) == "" || strings.TrimSpace(c.Links.Phrases[phrase]) == "" {
			return fmt.Errorf("%w: links.phrases: empty phrase or title", ErrInvalidField)
		}
	}

	if c.Code.Language != "" && lexers.Get(c.Code.Language) == nil {
		return fmt.Errorf("%w: code.language: unknown language %q", ErrInvalidField, c.Code.Language)
	}
	if c.Code.Style != "" {
		if _, ok := styles.Registry[c.Code.Style]; !ok {
			return fmt.Errorf("%w: code.style: unknown style %q", ErrInvalidField, c.Code.Style)
		}
	}

	switch strings.ToLower(c.PDF.PageSize) {
	case "", "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: pdf.pageSize: %q (must be letter, a4, or legal)", ErrInvalidField, c.PDF.PageSize)
	}
	switch strings.ToLower(c.PDF.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: pdf.orientation: %q (must be portrait or landscape)", ErrInvalidField, c.PDF.Orientation)
	}
	if c.PDF.Margin != 0 && (c.PDF.Margin < 0.25 || c.PDF.Margin > 3) {
		return fmt.Errorf("%w: pdf.margin: must be between 0.25 and 3 inches, got %.2f", ErrInvalidField, c.PDF.Margin)
	}

	if c.PDF.Timeout != "" {
		d, err := time.ParseDuration(c.PDF.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: pdf.timeout: %q is not a positive duration", ErrInvalidField, c.PDF.Timeout)
		}
	}

	return nil
}

// PDFTimeout returns the configured PDF timeout, or fallback when unset.
// Validate has already rejected malformed values.
func (c *Config) PDFTimeout(fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(c.PDF.Timeout); err == nil && d > 0 {
		return d
	}
	return fallback
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// sortedKeys gives map validation a stable error order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Lang: "en",
		TOC:  TOCConfig{Title: "Contents", MaxDepth: DefaultTOCDepth},
		Code: CodeConfig{Language: "javascript"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// SearchPaths lists where a config name is looked up, in order.
// Tries extensions .yaml then .yml, in the current directory and then in
// $XDG_CONFIG_HOME/go-docx2html/ (os.UserConfigDir).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
