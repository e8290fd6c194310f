package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rulesmith/rulesmith/internal/scanner"
	"github.com/spf13/cobra"
)

// watchDebounce batches bursts of file events (editor save, git checkout)
// into a single rescan.
const watchDebounce = 500 * time.Millisecond

func newScanCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan repository for DRL-related files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			app.scanRepository(path)
			if watch, _ := cmd.Flags().GetBool("watch"); !watch {
				return nil
			}
			if path == "" {
				path = app.repoPath()
			}
			if _, err := os.Stat(path); err != nil {
				return nil
			}
			return app.watchRepository(path)
		},
	}
	cmd.Flags().Bool("watch", false, "Keep watching the repository and rescan on changes")
	return cmd
}

// watchRepository rescans the repository whenever rule-related files
// change. Blocks until interrupted.
func (a *app) watchRepository(root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	fmt.Fprintf(a.out, "Watching %s for changes (Ctrl+C to stop)\n", root)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var rescan <-chan time.Time
	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Chmod) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if !scanner.SkipDir(filepath.Base(evt.Name)) {
						if err := watchTree(watcher, evt.Name); err != nil {
							log.Printf("[Scan] watch %s: %v", evt.Name, err)
						}
					}
					continue
				}
			}
			if watchRelevant(evt.Name) {
				rescan = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Scan] watch error: %v", err)
		case <-rescan:
			rescan = nil
			a.scanRepository(root)
		case <-interrupt:
			fmt.Fprintln(a.out, "\nStopped watching.")
			return nil
		}
	}
}

// watchTree registers every directory under root, honoring the same skip
// list as the scanner so node_modules and friends stay unwatched.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			log.Printf("[Scan] watch %s: %v", path, err)
		}
		return nil
	})
}

// watchRelevant reports whether a change to the named file can affect the
// scan result.
func watchRelevant(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".java", ".drl", ".gdst":
		return true
	}
	return filepath.Base(name) == scanner.ProfileName
}
