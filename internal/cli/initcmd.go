package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camclone/internal/config"
	appErrors "camclone/internal/errors"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Println("Initializing camclone...")

	dir, err := config.Dir()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "init", "", err)
	}
	confPath, err := config.DefaultConfigPath()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "init", "", err)
	}

	if _, err := os.Stat(confPath); err == nil && !flagForce {
		fmt.Printf("Already initialized, config is at '%s'\n", confPath)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", dir, err)
	}
	if err := os.WriteFile(confPath, []byte(config.DefaultYAML), 0o644); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "write", confPath, err)
	}

	fmt.Printf("Created '%s'.\nEdit the import paths and policies before the first clone.\n", confPath)
	return nil
}
