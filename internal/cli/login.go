package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camclone/internal/config"
	appErrors "camclone/internal/errors"
	"camclone/internal/infra/drive"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the track-log source",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	secretPath, err := config.ClientSecretPath()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "login", "", err)
	}
	secret, err := os.ReadFile(secretPath)
	if err != nil {
		return appErrors.Wrap(appErrors.NotFound, "login", secretPath,
			errors.New("place your Google API client credentials there first"))
	}

	cred, err := credPath()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "login", "", err)
	}
	session, err := drive.NewSession(secret, cred)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "login", secretPath, err)
	}

	if err := session.Login(cmd.Context()); err != nil {
		return appErrors.Wrap(appErrors.Internal, "login", "", err)
	}
	fmt.Println("Login complete.")
	return nil
}
