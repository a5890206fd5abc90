package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	docx2html "github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/fileutil"
)

// defaultDebugDir is picked up when it exists in the working directory.
const defaultDebugDir = docx2html.DefaultDebugDir

// Sentinel errors for the convert command.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrNoInput        = errors.New("no input specified")
	ErrNoDocuments    = errors.New("no .docx files found")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrDebugBatch     = errors.New("--debug-dir needs a single input document")
)

// batchError reports failed conversions whose errors were already printed.
// It unwraps to the first failure so the exit code matches it.
type batchError struct {
	failed int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, env.Color, flags.common.quiet, flags.common.verbose)
	setMaxProcs(logger)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg, env)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout, cfg.PDF.Timeout)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, envCfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDocuments, inputPath)
	}

	debugDir, err := resolveDebugDir(cfg.Debug.Dir, len(files), flags.outputMode.debugDir != "")
	if err != nil {
		return err
	}
	cfg.Debug.Dir = debugDir

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := min(docx2html.ResolvePoolSize(workers), len(files))
	logger.Debug().Int("workers", poolSize).Int("documents", len(files)).Msg("starting conversion")

	opts := []docx2html.Option{
		docx2html.WithConfig(cfg),
		docx2html.WithLogger(logger),
	}
	if timeout > 0 {
		opts = append(opts, docx2html.WithTimeout(timeout))
	}
	pool, err := docx2html.NewConverterPool(poolSize, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	params := &conversionParams{
		pdf:       flags.outputMode.pdf,
		stylePath: cfg.Style,
		debugDir:  debugDir,
	}
	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params)

	summary := printResults(results, flags.common.quiet, flags.common.verbose, env, debugDir)
	if summary.Failed > 0 {
		return &batchError{failed: summary.Failed, first: firstError(results)}
	}
	return nil
}

// loadConfig reads the named config, or starts from the environment's base
// config. The flag wins over DOCX2HTML_CONFIG.
func loadConfig(flagConfig string, envCfg *envConfig, env *Environment) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		base := env.Config
		if base == nil {
			base = config.DefaultConfig()
		}
		cfg := *base
		return &cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.document.title != "" {
		cfg.Title = flags.document.title
	}
	if flags.document.lang != "" {
		cfg.Lang = flags.document.lang
	}
	if flags.document.notice != "" {
		cfg.Notice = ""
		cfg.NoticeName = flags.document.notice
	}

	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.depth != 0 {
		cfg.TOC.MaxDepth = flags.toc.depth
	}
	if flags.sections.number {
		cfg.Sections.Number = true
	}

	if flags.page.size != "" {
		cfg.PDF.PageSize = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.PDF.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.PDF.Margin = flags.page.margin
	}

	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.assets.noStyle {
		cfg.Style = ""
		cfg.StylesheetHref = ""
	}

	if flags.outputMode.debugDir != "" {
		cfg.Debug.Dir = flags.outputMode.debugDir
	}
}

// resolveTimeout picks the PDF timeout.
// Priority: flag > env > config. Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	switch {
	case flagValue != "":
		return parseTimeout(flagValue)
	case envValue > 0:
		return envValue, nil
	case configValue != "":
		return parseTimeout(configValue)
	}
	return 0, nil
}

// parseTimeout parses a positive Go duration.
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q: must be positive", ErrInvalidTimeout, s)
	}
	return d, nil
}

// resolveInputPath returns the single positional argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
}

// resolveOutputDir returns the output location: flag, then env.
func resolveOutputDir(flagOutput string, envCfg *envConfig) string {
	if flagOutput != "" {
		return flagOutput
	}
	return envCfg.OutputDir
}

// resolveDebugDir applies the _fixup_log default and refuses a snapshot
// directory for batches, where documents would overwrite each other.
// An implicit default is dropped for batches instead.
func resolveDebugDir(configured string, documents int, explicit bool) (string, error) {
	dir := configured
	if dir == "" && fileutil.DirExists(defaultDebugDir) {
		dir = defaultDebugDir
	}
	if dir == "" || documents == 1 {
		return dir, nil
	}
	if explicit || configured != "" {
		return "", fmt.Errorf("%w: got %d documents", ErrDebugBatch, documents)
	}
	return "", nil
}

// newLogger builds the console logger. Passes log at debug level, the
// summary of unknown styles at warn.
func newLogger(w io.Writer, color, quiet, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota before the
// pool is sized. Errors only mean the runtime default stays in place.
func setMaxProcs(logger zerolog.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug().Msgf(format, args...)
	}))
}

// firstError returns the first failure in input order.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
