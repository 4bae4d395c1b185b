// Package cli provides the couchspinner command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/pemre/couchspinner/internal/adapters/driven/archive/ziparchive"
	"github.com/pemre/couchspinner/internal/adapters/driven/config/file"
	"github.com/pemre/couchspinner/internal/adapters/driven/storage/memory"
	"github.com/pemre/couchspinner/internal/adapters/driven/storage/sqlite"
	"github.com/pemre/couchspinner/internal/adapters/driven/telemetry"
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/core/services"
	"github.com/pemre/couchspinner/internal/logger"
	"github.com/pemre/couchspinner/internal/normalisers/jsondoc"
)

// envPrefix prefixes every environment override, e.g. COUCHSPINNER_CACHE_BACKEND.
const envPrefix = "COUCHSPINNER"

// version is set at build time via -ldflags.
var version = "dev"

// Flags.
var (
	configDir string
	verbose   bool
)

// Wired by initServices before any command runs.
var (
	settings    domain.Settings
	configStore *file.ConfigStore
	sessionKV   driven.KeyValueStore
	assetStore  *memory.AssetStore
	reporter    *telemetry.LogReporter
	closers     []func() error
)

var rootCmd = &cobra.Command{
	Use:   "couchspinner",
	Short: "Explore a couch-surfing data export",
	Long: `couchspinner ingests a couch-surfing data export (the .zip archive or
the JSON file inside it), extracts its images and resolves the people met
through hosting and surfing visits.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.couchspinner)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

// initServices loads settings and wires the session infrastructure.
func initServices(_ *cobra.Command, _ []string) error {
	shutdown()

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store

	s := services.LoadSettings(store)
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if verbose {
		s.Verbose = true
	}
	if err := services.ValidateSettings(s); err != nil {
		return err
	}
	settings = s
	logger.SetVerbose(s.Verbose)

	kv, err := openSessionStore(s.Cache)
	if err != nil {
		return err
	}
	sessionKV = kv
	assetStore = memory.NewAssetStore()
	reporter = telemetry.NewLogReporter(telemetry.DefaultBuffer, telemetry.LogSink)
	closers = append(closers, reporter.Close)

	logger.Debug("Session store: %s (quota %d bytes)", s.Cache.Backend, s.Cache.QuotaBytes)
	return nil
}

// openSessionStore opens the session-scoped key/value store for backend.
func openSessionStore(c domain.CacheSettings) (driven.KeyValueStore, error) {
	switch c.Backend {
	case domain.CacheBackendSQLite:
		db, err := sqlite.OpenSession(sessionDir(c), sessionName(c), c.QuotaBytes)
		if err != nil {
			return nil, fmt.Errorf("opening session database: %w", err)
		}
		closers = append(closers, db.Close)
		logger.Debug("Session database: %s", db.Name())
		return db.KeyValueStore(), nil
	case domain.CacheBackendNone:
		return memory.DisabledKeyValueStore{}, nil
	default:
		return memory.NewKeyValueStore(c.QuotaBytes), nil
	}
}

// sessionName defaults to the parent process id, so invocations from one
// shell share a session and a new shell starts empty.
func sessionName(c domain.CacheSettings) string {
	if c.Session != "" {
		return c.Session
	}
	return strconv.Itoa(os.Getppid())
}

func sessionDir(c domain.CacheSettings) string {
	if c.Dir != "" {
		return c.Dir
	}
	return os.TempDir()
}

// newSession builds an orchestrator and identity service over the wired
// infrastructure, presenting through presenter.
func newSession(ctx context.Context, presenter driven.Presenter) (*services.IngestionOrchestrator, *services.IdentityService, error) {
	if sessionKV == nil || assetStore == nil {
		return nil, nil, errors.New("services not initialised")
	}

	parser := jsondoc.New()
	cache := services.NewSessionCache(sessionKV, parser, reporter, settings.Cache.Namespace)
	orchestrator := services.NewIngestionOrchestrator(
		ctx,
		ziparchive.New(settings.Archive.MaxEntryBytes),
		services.NewPayloadExtractor(assetStore, settings.Archive.DecodeConcurrency),
		parser,
		assetStore,
		cache,
		reporter,
		presenter,
	)
	return orchestrator, services.NewIdentityService(orchestrator, settings.Identity.MemoSize), nil
}

// shutdown releases everything initServices opened.
func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("Shutdown: %v", err)
		}
	}
	closers = nil
}

// exitCode maps an error returned by Execute to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrInputCount), errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidInput), errors.Is(err, os.ErrNotExist):
		return 2
	default:
		return 1
	}
}

// shownError wraps an error the user has already been shown.
type shownError struct {
	err error
}

func (e shownError) Error() string { return e.err.Error() }

func (e shownError) Unwrap() error { return e.err }

// printError writes err to w unless it has already been shown.
func printError(w io.Writer, err error) {
	var shown shownError
	if err == nil || errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// Main runs the CLI and exits the process.
func Main() {
	err := Execute()
	printError(os.Stderr, err)
	os.Exit(exitCode(err))
}
