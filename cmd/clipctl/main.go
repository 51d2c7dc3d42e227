// Command clipctl packs, inspects, upgrades and edits sprite clip documents.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clipctl",
	Short: "Tooling for sprite clip documents",
	Long: `clipctl works on sprite clip documents (YAML) and packed resource files.

Configuration is read from clipctl.yaml in the working directory (or --config)
and from CLIPCTL_* environment variables; flags win over both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./clipctl.yaml)")
	rootCmd.PersistentFlags().String("out", "clips.res", "Resource file to pack clips into")
	rootCmd.PersistentFlags().Float64("frame-rate", 12, "Frame rate for clips built from animation metadata")
	rootCmd.PersistentFlags().Bool("best-effort", false, "Keep partial changes when an upgrade stage fails")

	_ = viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("frame_rate", rootCmd.PersistentFlags().Lookup("frame-rate"))
	_ = viper.BindPFlag("best_effort", rootCmd.PersistentFlags().Lookup("best-effort"))
}

func initConfig(cmd *cobra.Command) error {
	_ = viper.BindPFlags(cmd.Flags())
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clipctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("CLIPCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	log.Printf("clipctl: using config %s", viper.ConfigFileUsed())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
