package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/superpowers-pi/superpowers/pkg/config"
	"github.com/superpowers-pi/superpowers/pkg/logger"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime int
	Quiet        bool
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 500,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-print the skill catalog whenever a skill library changes",
	Long: `Watch the project, personal and superpowers skill libraries and print the
catalog again each time a skill is added, removed or edited.

Only libraries that exist when the command starts are watched.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		watchConfig := getWatchConfigFromFlags(cmd)
		if err := watchConfig.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}
		presenter.SetQuiet(watchConfig.Quiet)

		if err := runWatchMode(ctx, configFrom(ctx), watchConfig); err != nil {
			presenter.Error(err, "Watch failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	watchCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Only print the catalog, not the change notifications")
}

func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		config.Quiet = quiet
	}

	return config
}

func runWatchMode(ctx context.Context, cfg config.Config, watchConfig *WatchConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	roots := cfg.Roots()
	watched := 0
	for _, root := range roots.Ordered() {
		for _, dir := range watchDirs(root.Dir, cfg.MaxDepth) {
			if err := watcher.Add(dir); err != nil {
				logger.G(ctx).WithError(err).WithField("directory", dir).Warn("failed to watch directory")
				continue
			}
			watched++
		}
	}
	if watched == 0 {
		return errors.New("none of the skill libraries exist")
	}

	printCatalog(ctx, roots, cfg.MaxDepth)

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)
	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(watchConfig.DebounceTime)*time.Millisecond)

	go func() {
		for {
			select {
			case event := <-debouncedEvents:
				presenter.Info(changeMessage(event))
				printCatalog(ctx, roots, cfg.MaxDepth)
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			logger.G(ctx).WithField("file", event.Name).WithField("operation", event.Op.String()).Debug("file change detected")

			select {
			case events <- FileEvent{Path: event.Name, Op: event.Op, Time: time.Now()}:
			case <-ctx.Done():
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("error watching skill libraries")
		case <-ctx.Done():
			presenter.Warning("Cancellation requested, shutting down...")
			return nil
		}
	}
}

// watchDirs lists root and every directory below it down to maxDepth
// levels, which covers every directory a SKILL.md can be found in.
// A missing root yields nothing.
func watchDirs(root string, maxDepth int) []string {
	if root == "" {
		return nil
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil
	}

	dirs := []string{root}
	var walk func(dir string, level int)
	walk = func(dir string, level int) {
		if level > maxDepth {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			dirs = append(dirs, path)
			walk(path, level+1)
		}
	}
	walk(root, 1)

	return dirs
}

// debounceFileEvents coalesces bursts of events into the last event of the
// burst, emitted once delay has passed without further input.
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	var (
		timer  *time.Timer
		fire   <-chan time.Time
		latest FileEvent
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-input:
			if !ok {
				return
			}
			latest = event
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case output <- latest:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func printCatalog(ctx context.Context, roots skills.Roots, maxDepth int) {
	listings := skills.ScanRoots(ctx, roots, maxDepth)
	out, err := renderListings(listings, roots, "text")
	if err != nil {
		logger.G(ctx).WithError(err).Error("failed to render skills")
		return
	}
	fmt.Print(out)
}

func changeMessage(event FileEvent) string {
	return fmt.Sprintf("[%s] Change detected: %s (%s)", event.Time.Format(time.TimeOnly), event.Path, event.Op)
}
