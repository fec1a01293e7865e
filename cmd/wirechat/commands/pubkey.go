package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirechat/internal/crypto"
)

func pubkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey",
		Short: "Print the identity public key for sharing with peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Identity.LoadIdentity()
			if err != nil {
				return err
			}
			fmt.Println(crypto.B64(id.Public[:]))
			return nil
		},
	}
}
