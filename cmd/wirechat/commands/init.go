package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the identity keypair and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, pub, err := crypto.GenerateX25519()
			if err != nil {
				return err
			}
			id := domain.Identity{Private: priv, Public: pub}
			if err := appCtx.Identity.SaveIdentity(id); err != nil {
				return err
			}
			fmt.Printf("Identity created.\nFingerprint: %s\n", crypto.Fingerprint(pub))
			return nil
		},
	}
}
