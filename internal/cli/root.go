// Package cli wires the camclone commands together.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camclone/internal/config"
	appErrors "camclone/internal/errors"
)

var (
	flagConfigPath string
	flagCredPath   string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "camclone",
	Short:         "A copy utility for large images taken by cameras",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "config file (default ~/.camclone/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagCredPath, "cred", "", "credentials cache (default ~/.camclone/credentials)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(cleanCmd)
}

// Execute runs the CLI; any unrecoverable setup error exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
		os.Exit(1)
	}
}

func configPath() (string, error) {
	if flagConfigPath != "" {
		return flagConfigPath, nil
	}
	return config.DefaultConfigPath()
}

func credPath() (string, error) {
	if flagCredPath != "" {
		return flagCredPath, nil
	}
	return config.DefaultCredPath()
}
