package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/avenhq/avenassist/internal/adapters/driven/config"
	"github.com/avenhq/avenassist/internal/adapters/driven/storage/file"
	"github.com/avenhq/avenassist/internal/core/ports/driving"
	"github.com/avenhq/avenassist/internal/logger"
)

// failedIDsFile records the chunk ids that failed in the last run, one
// per line, so --resume can pick them up.
const failedIDsFile = "index.failed"

// watchDebounce coalesces bursts of filesystem events into one re-index.
const watchDebounce = 500 * time.Millisecond

var (
	flagResume bool
	flagWatch  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk, embed and upsert the FAQ artefact",
	Long: `Splits the harvested FAQ artefact into chunks, embeds each chunk and
upserts the vectors. Re-running over unchanged content overwrites the
same records, so indexing is safe to repeat.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagResume, "resume", false,
		"retry only the chunks that failed in the previous run")
	indexCmd.Flags().BoolVar(&flagWatch, "watch", false,
		"re-index whenever the artefact file changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ix := indexOrchestrator
	dataDir := testDataDir
	var artefactPath string

	if ix == nil {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dataDir, err = cfg.ResolvedDataDir()
		if err != nil {
			return err
		}
		artefactPath, err = resolveArtefactPath(cfg)
		if err != nil {
			return err
		}

		svc, cleanup, err := buildIndexer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		ix = svc
	}

	opts := driving.IndexOptions{}
	if flagResume {
		ids, err := readFailedIDs(dataDir)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			cmd.Println("Nothing to resume.")
			return nil
		}
		opts.OnlyIDs = ids
	}

	if err := indexOnce(cmd, ix, dataDir, opts); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchAndIndex(cmd, ix, dataDir, artefactPath)
}

// indexOnce runs a single indexing pass and reports the outcome.
func indexOnce(cmd *cobra.Command, ix driving.IndexOrchestrator, dataDir string, opts driving.IndexOptions) error {
	report, err := ix.Index(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks in %s (run %s).\n",
		len(report.Succeeded), report.Duration.Round(time.Millisecond), report.RunID)

	if len(report.Failed) > 0 {
		for _, f := range report.Failed {
			cmd.Printf("  failed %s: %s\n", f.ChunkID, f.Reason)
		}
		if err := writeFailedIDs(dataDir, report.FailedIDs()); err != nil {
			return err
		}
		return fmt.Errorf("%d chunks failed; re-run with --resume to retry them", len(report.Failed))
	}

	clearFailedIDs(dataDir)
	return nil
}

// watchAndIndex re-runs full indexing passes whenever the artefact
// changes, until interrupted.
func watchAndIndex(cmd *cobra.Command, ix driving.IndexOrchestrator, dataDir, artefactPath string) error {
	if artefactPath == "" {
		return fmt.Errorf("watch mode needs a configured artefact path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic renames replace the
	// file's inode and would silently detach a file-level watch.
	if err := watcher.Add(filepath.Dir(artefactPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(artefactPath), err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", artefactPath)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != artefactPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case <-pending:
			if err := indexOnce(cmd, ix, dataDir, driving.IndexOptions{}); err != nil {
				logger.Error("Re-index failed: %v", err)
			}
		}
	}
}

// resolveArtefactPath returns the artefact location for watch mode.
func resolveArtefactPath(cfg *config.Config) (string, error) {
	store, err := file.NewArtefactStore(cfg.DataDir)
	if err != nil {
		return "", err
	}
	return store.Path(), nil
}

func failedIDsPath(dataDir string) string {
	return filepath.Join(dataDir, failedIDsFile)
}

func readFailedIDs(dataDir string) ([]string, error) {
	data, err := os.ReadFile(failedIDsPath(dataDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading failed ids: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

func writeFailedIDs(dataDir string, ids []string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	content := strings.Join(ids, "\n") + "\n"
	if err := os.WriteFile(failedIDsPath(dataDir), []byte(content), 0600); err != nil {
		return fmt.Errorf("writing failed ids: %w", err)
	}
	return nil
}

func clearFailedIDs(dataDir string) {
	os.Remove(failedIDsPath(dataDir))
}

// testDataDir lets tests point the failed-id bookkeeping at a temp dir.
var testDataDir string
