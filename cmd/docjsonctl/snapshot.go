package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcvoid/docjson/snapshot"
	"github.com/mcvoid/docjson/store"
)

func newSnapshotCmd(state *appState) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export the document as a PKCS#7-signed snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				if state.cfg.Snapshot.IdentityFile == "" {
					return "", fmt.Errorf("snapshot requires snapshot.identityFile in the config file")
				}
				p12, err := os.ReadFile(state.cfg.Snapshot.IdentityFile)
				if err != nil {
					return "", fmt.Errorf("reading identity file: %w", err)
				}
				key, certs, err := snapshot.LoadIdentity(p12, state.cfg.Snapshot.Password)
				if err != nil {
					return "", err
				}
				snap, err := snapshot.Sign(doc.Root(), key, certs)
				if err != nil {
					return "", err
				}
				f, err := os.Create(out)
				if err != nil {
					return "", err
				}
				defer f.Close()
				if err := snapshot.Write(f, snap); err != nil {
					return "", err
				}
				return fmt.Sprintf("wrote snapshot to %s", out), nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "snapshot.bin", "output path for the signed snapshot")
	return cmd
}
