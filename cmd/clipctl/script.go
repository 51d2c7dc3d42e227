package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/milk9111/spriteclip/script"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file> <script.tengo>",
	Short: "Run a tengo edit script against a clip document",
	Long: `Script upgrades the document, runs the tengo script with the clip bound to
the global "clip" object and writes the document back unless --dry-run is set.
Lines passed to clip.log are printed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScriptFile(cmd.Context(), args[0], args[1], scriptOptions{
			DryRun:     viper.GetBool("dry-run"),
			Timeout:    viper.GetDuration("timeout"),
			BestEffort: viper.GetBool("best_effort"),
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	scriptCmd.Flags().Bool("dry-run", false, "Run the script without writing the document")
	scriptCmd.Flags().Duration("timeout", 10*time.Second, "Abort scripts that run longer than this")
	rootCmd.AddCommand(scriptCmd)
}

type scriptOptions struct {
	DryRun     bool
	Timeout    time.Duration
	BestEffort bool
	Out        io.Writer
}

func runScriptFile(ctx context.Context, docPath, scriptPath string, opts scriptOptions) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}
	c, _, err := loadUpgraded(docPath, opts.BestEffort)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	res, err := script.RunContext(ctx, c, src)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}
	if err := c.Check(); err != nil {
		return fmt.Errorf("%s left the clip inconsistent: %w", scriptPath, err)
	}
	if opts.Out != nil {
		for _, line := range res.Log {
			fmt.Fprintln(opts.Out, line)
		}
	}
	if opts.DryRun {
		return nil
	}
	return writeClip(docPath, c)
}
