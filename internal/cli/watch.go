package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/radovskyb/watcher"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conradludgate/hslwatch/internal/palette"
)

func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-convert palettes when they change",
		Long: `Convert the config palette, then keep watching.

The config file is reloaded on change, and palette files under palette-dir that
match the files patterns are converted whenever they are created or written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, &printer{out: cmd.OutOrStdout()}, nil)
		},
	}

	watchCmd.Flags().String("palette-dir", ".", "Directory to watch for palette files")
	watchCmd.Flags().Bool("recursive", true, "Watch palette-dir recursively")
	watchCmd.Flags().Duration("poll-interval", 0, "Polling interval for palette files (default 100ms)")

	for _, name := range []string{"palette-dir", "recursive", "poll-interval"} {
		if err := viper.BindPFlag(name, watchCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	return watchCmd
}

// runWatch blocks until ctx is done or the watcher closes. started, when not
// nil, is closed once the palette watcher is running.
func runWatch(ctx context.Context, p *printer, started chan<- struct{}) error {
	logger := log.WithFields(log.Fields{
		"palette": viper.ConfigFileUsed(),
	})

	convertConfig := func() {
		entries, err := palette.Parse(viper.GetViper(), palette.ColorsKey, logger)
		if err != nil {
			logger.Errorln(err)
			return
		}
		p.entries(entries)
	}

	convertConfig()

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			setLogLevel()
			convertConfig()

			logger.Infoln("Updated config")
		})
		viper.WatchConfig()
	}

	files, err := parseFiles(viper.Get("files"))
	if err != nil {
		return err
	}

	w := watcher.New()
	w.FilterOps(watcher.Create, watcher.Write, watcher.Rename, watcher.Move)
	w.AddFilterHook(MultiRegexFilterHook(files))

	dir := viper.GetString("palette-dir")
	dirLogger := log.WithField("dir", dir)

	if viper.GetBool("recursive") {
		err = w.AddRecursive(dir)
	} else {
		err = w.Add(dir)
	}
	if err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	for path, f := range w.WatchedFiles() {
		dirLogger.Debugf("%s: %s", path, f.Name())
	}

	interval := viper.GetDuration("poll-interval")
	if interval <= 0 {
		interval = defaultPollInterval
	}

	errc := make(chan error, 1)
	go func() {
		errc <- w.Start(interval)
	}()

	// Close is a no-op until Start is running, so cancellation waits for it.
	running := make(chan struct{})
	go func() {
		w.Wait()
		close(running)
	}()

	select {
	case <-running:
	case err := <-errc:
		return fmt.Errorf("watcher did not start: %w", err)
	}

	dirLogger.Infoln("Started watcher")
	if started != nil {
		close(started)
	}

	for {
		select {
		case <-ctx.Done():
			return closeWatcher(w)
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("watcher stopped: %w", err)
			}
			return nil
		case err := <-w.Error:
			dirLogger.Errorln(err)
		case <-w.Closed:
			return nil
		case event := <-w.Event:
			if event.IsDir() {
				continue
			}

			// renames and moves report the new path
			fileLogger := dirLogger.WithFields(log.Fields{"file": event.Path, "op": event.Op})
			fileLogger.Infoln("Reloading...")

			entries, err := palette.Load(event.Path, fileLogger)
			if err != nil {
				fileLogger.Errorln(err)
				continue
			}
			p.entries(entries)
		}
	}
}

// closeWatcher stops w and drains its channels so Start can return.
func closeWatcher(w *watcher.Watcher) error {
	go w.Close()
	for {
		select {
		case <-w.Event:
		case <-w.Error:
		case <-w.Closed:
			return nil
		}
	}
}
