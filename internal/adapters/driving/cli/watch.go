package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/pemre/couchspinner/internal/adapters/driven/presenter/console"
	"github.com/pemre/couchspinner/internal/adapters/driving/fileinput"
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driving"
	"github.com/pemre/couchspinner/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-ingest a file whenever it changes",
	Long: `Ingest a file, then watch it and ingest it again after every change.

A failed re-ingestion keeps the previous session. Changes arriving faster
than watch.min_interval are coalesced.

Examples:
  couchspinner watch ~/Downloads/export.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("identities", false, "list the identities after every ingestion")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	showIdentities, _ := cmd.Flags().GetBool("identities")

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	presenter := console.New(cmd.OutOrStdout(), showIdentities)

	orchestrator, _, err := newSession(cmd.Context(), presenter)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them, so the
	// directory is watched rather than the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	ingestPath(cmd.Context(), orchestrator, path)
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", path)

	limiter := rate.NewLimiter(rate.Every(settings.Watch.MinInterval), 1)
	return watchLoop(cmd.Context(), watcher.Events, watcher.Errors, path, limiter, func(ctx context.Context) {
		ingestPath(ctx, orchestrator, path)
	})
}

// watchLoop calls reingest for every relevant event on path, at most once per
// limiter token. Events queued while waiting are coalesced into one call.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	path string,
	limiter *rate.Limiter,
	reingest func(context.Context),
) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("Watcher: %v", err)
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !isReingestEvent(event, path) {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
			drain(events)
			reingest(ctx)
		}
	}
}

// isReingestEvent reports whether event changed the watched file's content.
func isReingestEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}

// ingestPath loads and ingests path. Failures are shown by the presenter.
func ingestPath(ctx context.Context, ingestor driving.Ingestor, path string) {
	input, err := fileinput.Load(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}
	if _, err := ingestor.Ingest(ctx, []domain.RawInput{input}); err != nil {
		logger.Debug("Ingest of %s failed: %v", path, err)
	}
}
