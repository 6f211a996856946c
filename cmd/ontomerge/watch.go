package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/ontomerge/sparta"
)

// newWatchCmd builds the long-running mode: merge once at startup,
// re-merge whenever a dataset file changes, and serve metrics over HTTP.
// Merge failures are logged and reflected in /healthz; the service stays
// up.
func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		dataDir  string
		ontology string
		addr     string
		scheme   string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the data directory and re-merge on dataset changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(root)
			if err != nil {
				return err
			}

			dir := firstNonEmpty(dataDir, app.cfg.Data.Dir)
			ontologyPath := firstNonEmpty(ontology, app.cfg.Ontology.Path)
			listenAddr := firstNonEmpty(addr, app.cfg.Watch.Addr)
			metrics := sparta.NewMetrics()
			state := &runState{}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// One merge covers all changes that settled during the
			// debounce window. The mutex keeps runs from overlapping
			// on the ontology file.
			var runMu sync.Mutex
			runMerge := func() {
				runMu.Lock()
				defer runMu.Unlock()
				dataset, err := resolveDataset(dir, "")
				if err != nil {
					app.logger.Error("dataset discovery failed", "data_dir", dir, "error", err)
					state.record(nil, err)
					return
				}
				schemeValue, strictValue, err := resolveTranslation(app.cfg, cmd, dataset.Version, scheme, strict)
				if err != nil {
					app.logger.Error("merge options invalid", "error", err)
					state.record(nil, err)
					return
				}
				result, err := sparta.Merge(sparta.Options{
					DatasetPath:  dataset.Path,
					OntologyPath: ontologyPath,
					Scheme:       schemeValue,
					StrictIDs:    strictValue,
					Backup:       app.cfg.BackupEnabled(),
					Logger:       app.logger,
					Metrics:      metrics,
				})
				if err != nil {
					app.logger.Error("merge failed",
						"dataset", dataset.Path,
						"ontology", ontologyPath,
						"error", err)
				}
				state.record(result, err)
			}

			runMerge()

			watcher, err := newDatasetWatcher(dir, app.cfg.Watch.Debounce, app.logger, runMerge)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer watcher.Stop()

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			mux.HandleFunc("/healthz", state.handleHealth)
			srv := &http.Server{
				Addr:              listenAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				app.logger.Info("metrics server listening", "addr", listenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					app.logger.Error("metrics server failed", "error", err)
				}
			}()

			<-ctx.Done()
			app.logger.Info("received shutdown signal")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.logger.Error("metrics server shutdown", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding SPARTA datasets (overrides config)")
	cmd.Flags().StringVar(&ontology, "ontology", "", "Ontology Turtle file to merge into (overrides config)")
	cmd.Flags().StringVar(&addr, "addr", "", "Metrics listen address (overrides config)")
	cmd.Flags().StringVar(&scheme, "scheme", "", "URI scheme: prefixed or bare (overrides version default)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject identifiers with the reserved D3- prefix")

	return cmd
}

// runState tracks the last merge outcome for the health endpoint.
type runState struct {
	mu      sync.Mutex
	runs    int
	lastRun time.Time
	lastErr string
	result  *sparta.Result
}

func (s *runState) record(result *sparta.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = time.Now()
	if err != nil {
		s.lastErr = err.Error()
		return
	}
	s.lastErr = ""
	s.result = result
}

func (s *runState) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "ok"
	code := http.StatusOK
	if s.lastErr != "" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	payload := map[string]any{
		"status": status,
		"runs":   s.runs,
	}
	if !s.lastRun.IsZero() {
		payload["last_run"] = s.lastRun.UTC().Format(time.RFC3339)
	}
	if s.lastErr != "" {
		payload["error"] = s.lastErr
	}
	if s.result != nil {
		payload["graph_triples"] = s.result.GraphTriples
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// datasetWatcher watches the data directory and triggers a merge after
// dataset file changes settle.
type datasetWatcher struct {
	dataDir  string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	onFlush func()
}

func newDatasetWatcher(dataDir string, debounce time.Duration, logger *slog.Logger, onFlush func()) (*datasetWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &datasetWatcher{
		dataDir:  dataDir,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		onFlush:  onFlush,
	}, nil
}

// Start begins watching the data directory for dataset changes.
func (w *datasetWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dataDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dataDir, err)
	}
	go w.processEvents(ctx)
	w.logger.Info("dataset watcher started",
		"data_dir", w.dataDir,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *datasetWatcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing.
func (w *datasetWatcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent records a dataset file change for the next flush.
// Removed datasets never trigger a merge; the next discovery simply
// won't see them.
func (w *datasetWatcher) handleFSEvent(event fsnotify.Event) {
	if !sparta.IsDatasetFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("dataset change detected",
		"path", event.Name,
		"op", event.Op.String())
}

// flushPending runs one merge covering all accumulated changes.
func (w *datasetWatcher) flushPending() {
	w.pendingMu.Lock()
	n := len(w.pending)
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	if n == 0 {
		return
	}
	w.logger.Info("dataset changes settled", "files", n)
	w.onFlush()
}
