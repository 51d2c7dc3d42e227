package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/milk9111/spriteclip/assets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Repack dir into the resource file whenever a document changes",
	Long: `Watch packs dir once and then again after every change to a clip document
or edit script below it. Changes arriving within --settle of each other are
packed together. Logs go to stderr, or to a rotated --log-file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if path := viper.GetString("log-file"); path != "" {
			logger := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    viper.GetInt("log-max-size"),
				MaxBackups: viper.GetInt("log-max-backups"),
				MaxAge:     28,
				Compress:   true,
			}
			defer logger.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, logger))
			defer log.SetOutput(os.Stderr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := packOptions{
			Dir:        args[0],
			Out:        viper.GetString("out"),
			Meta:       viper.GetString("meta"),
			FrameRate:  viper.GetFloat64("frame_rate"),
			BestEffort: viper.GetBool("best_effort"),
		}
		return watchDir(ctx, opts, viper.GetDuration("settle"), cmd.OutOrStdout())
	},
}

func init() {
	watchCmd.Flags().String("meta", "", "Animation index (yaml) to import on every pack")
	watchCmd.Flags().String("log-file", "", "Write logs to this file with rotation")
	watchCmd.Flags().Int("log-max-size", 10, "Megabytes before the log file is rotated")
	watchCmd.Flags().Int("log-max-backups", 3, "Rotated log files to keep")
	watchCmd.Flags().Duration("settle", 250*time.Millisecond, "Quiet period before repacking")
	rootCmd.AddCommand(watchCmd)
}

// watchDir packs once, then repacks after changes until ctx is done.
func watchDir(ctx context.Context, opts packOptions, settle time.Duration, out io.Writer) error {
	repack := func(reason string) {
		res, err := packDir(opts)
		if err != nil {
			log.Printf("clipctl: watch: pack %s: %v", opts.Dir, err)
			return
		}
		fmt.Fprintf(out, "%s: packed %d clips (%d failed)\n", reason, res.Packed, len(res.Failed))
	}

	dirs, err := watchDirs(opts.Dir)
	if err != nil {
		return err
	}
	w, err := assets.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch %s: %w", opts.Dir, err)
	}
	defer w.Close()

	repack("initial")

	var (
		timer   *time.Timer
		pending <-chan time.Time
		changed string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Printf("clipctl: watch: %s changed", name)
			changed = name
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("clipctl: watch: %v", err)
		case <-pending:
			pending = nil
			repack(changed)
		}
	}
}

// watchDirs lists dir and every directory below it; fsnotify does not
// recurse.
func watchDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
