package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wirechat/internal/app"
)

var (
	home       string
	passphrase string
	appCtx     *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "wirechat",
		Short:         "Peer-to-peer secure session CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".wirechat")
			}
			var err error
			appCtx, err = app.NewWire(app.Config{Home: home, Passphrase: passphrase})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.wirechat)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect the identity file")

	root.AddCommand(initCmd(), fingerprintCmd(), pubkeyCmd(), peerCmd())
	return root.Execute()
}
