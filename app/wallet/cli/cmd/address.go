package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address and public key of the wallet",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	kp, err := loadKeyPair()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), kp.Address())
	fmt.Fprintln(cmd.OutOrStdout(), kp.PublicKeyHex())
	return nil
}
