package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	"wirechat/internal/protocol/tai64n"
)

func peerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Manage the peer directory",
	}
	cmd.AddCommand(peerAddCmd(), peerListCmd())
	return cmd
}

func peerAddCmd() *cobra.Command {
	var psk string
	cmd := &cobra.Command{
		Use:   "add <base64-public-key>",
		Short: "Add or update a peer by public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := crypto.ParsePublicKey(args[0])
			if err != nil {
				return err
			}
			if pub.IsZero() {
				return fmt.Errorf("refusing the all-zero public key")
			}
			p := domain.Peer{PublicKey: pub}
			if psk != "" {
				if p.PresharedKey, err = crypto.ParsePresharedKey(psk); err != nil {
					return err
				}
			}
			if err := appCtx.Peers.UpsertPeer(p); err != nil {
				return err
			}
			fmt.Printf("Peer added.\nFingerprint: %s\n", crypto.Fingerprint(pub))
			return nil
		},
	}
	cmd.Flags().StringVar(&psk, "psk", "", "optional base64 preshared key")
	return cmd
}

func peerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			peers, err := appCtx.Peers.Peers()
			if err != nil {
				return err
			}
			if len(peers) == 0 {
				fmt.Println("No peers yet.")
				return nil
			}
			var zero domain.Timestamp
			for _, p := range peers {
				last := "never"
				if p.LastHandshake != zero {
					last = tai64n.Time(p.LastHandshake).Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%s  fp=%s  last-handshake=%s\n",
					crypto.B64(p.PublicKey[:]), crypto.Fingerprint(p.PublicKey), last)
			}
			return nil
		},
	}
}
