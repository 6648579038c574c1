package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	watchQuiet bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Convert STEP files as they appear in the source directory",
	Long: `Watch a directory (the workspace source dir by default) and run the full
pipeline for every .step/.stp file that is created or rewritten.

Events are debounced (watch_debounce_ms in the config) so that a file
being copied is converted once it is complete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress conversion notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	if err := appWorkspace.Initialize(); err != nil {
		return err
	}
	dir := appWorkspace.SourcePath
	if len(args) == 1 {
		dir = args[0]
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Watching for STEP files..."))
		fmt.Println(ui.FormatMuted("Directory: " + dir))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	convert := func(paths []string) {
		paths = existingPaths(paths)
		if len(paths) == 0 {
			// An empty input list would mean the whole source dir
			return
		}
		req, err := batchRequest(cmd, paths)
		if err != nil {
			appLogger.Error("invalid batch settings", zap.Error(err))
			return
		}
		resp, err := batchService.Execute(ctx, req, nil)
		if err != nil {
			if !watchQuiet {
				fmt.Println(ui.FormatError("Conversion failed: " + err.Error()))
			}
			appLogger.Error("watch conversion failed", zap.Strings("paths", paths), zap.Error(err))
			return
		}
		if watchQuiet {
			return
		}
		for _, r := range resp.Results {
			if r.Success {
				fmt.Println(ui.FormatSuccess("Converted " + r.ID))
			} else {
				fmt.Println(ui.FormatError(r.ID + ": " + r.Error.Error()))
			}
		}
	}

	d := newDebouncer(appConfig.WatchDebounce(), convert)
	defer d.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isWatchedEvent(event) {
				d.Add(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLogger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			return nil
		}
	}
}

// isWatchedEvent reports whether event creates or rewrites a STEP file
func isWatchedEvent(event fsnotify.Event) bool {
	if !domain.IsSTEP(event.Name) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// existingPaths drops queued files that were renamed or removed before
// the flush
func existingPaths(paths []string) []string {
	kept := paths[:0:0]
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			kept = append(kept, p)
		}
	}
	return kept
}

// debouncer collects paths and hands them to flush once no new path has
// arrived for delay. Flushes never overlap.
type debouncer struct {
	mu      sync.Mutex
	runMu   sync.Mutex
	delay   time.Duration
	pending map[string]struct{}
	timer   *time.Timer
	flush   func([]string)
}

func newDebouncer(delay time.Duration, flush func([]string)) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]struct{}),
		flush:   flush,
	}
}

// Add queues path and restarts the quiet period
func (d *debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Stop cancels a pending flush
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *debouncer) fire() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.flush(paths)
}
