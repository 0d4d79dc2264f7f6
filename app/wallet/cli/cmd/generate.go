package cmd

import (
	"fmt"
	"os"

	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/keystore"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getKeyPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %s already exists", path)
	}

	kp, err := signature.GenerateKeyPair()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		return err
	}

	if err := keystore.Save(path, kp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), kp.Address())
	return nil
}
