package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appErrors "camclone/internal/errors"
	"camclone/internal/infra/drive"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached credentials",
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	cred, err := credPath()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "clean", "", err)
	}
	if err := drive.Clear(cred); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No cached credentials.")
			return nil
		}
		return appErrors.Wrap(appErrors.IOFailure, "clean", cred, err)
	}
	fmt.Println("Credentials removed.")
	return nil
}
