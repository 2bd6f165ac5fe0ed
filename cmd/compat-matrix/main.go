// compat-matrix converts model/hardware benchmark data into the published
// compatibility document and serves it over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
)

var (
	cfgFile string
	cfg     *common.Config

	flagPort int
	flagHost string
)

var rootCmd = &cobra.Command{
	Use:   "compat-matrix",
	Short: "Model/hardware compatibility matrix pipeline",
	Long: `compat-matrix builds the model/hardware compatibility document from
benchmark results (PostgreSQL or Excel), publishes it, and serves it over a
cached HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func initConfig(cmd *cobra.Command) error {
	// .env is optional; environment variables win over file values either way.
	_ = godotenv.Load()

	paths := []string{}
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("config file %s: %w", cfgFile, err)
		}
		paths = append(paths, cfgFile)
	} else if _, err := os.Stat("compat-matrix.toml"); err == nil {
		paths = append(paths, "compat-matrix.toml")
	}

	loaded, err := common.LoadFromFiles(paths...)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") || cmd.Flags().Changed("host") {
		common.ApplyFlagOverrides(loaded, flagPort, flagHost)
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	common.InitLogger(loaded)

	cfg = loaded
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (default ./compat-matrix.toml)")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 8000, "HTTP listen port")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "localhost", "HTTP listen host")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
