package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <project-file>",
	Short: "Re-analyze a project file whenever it changes",
	Long: `Watch monitors a project file and re-runs the analysis on every save.
Invalid intermediate states are reported and watching continues.

Examples:
  # Live-reload analysis while editing
  costplan watch project.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchDebounce coalesces the event bursts editors emit on save.
const watchDebounce = 100 * time.Millisecond

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, renderer, _, err := newEngine()
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: many editors replace the file on
	// save, which drops a direct file watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	analyzeOnce := func() {
		p, err := loadProject(path)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", filepath.Base(path), err)
			return
		}
		analysis, err := eng.Analyze(p)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", filepath.Base(path), err)
			return
		}
		fmt.Fprint(out, renderer.Analysis(p, analysis))
	}

	analyzeOnce()
	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", filepath.Base(path))

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			// Only care about write/create operations
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending {
				debounce.Reset(watchDebounce)
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			analyzeOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch error: %v\n", err)
		}
	}
}
