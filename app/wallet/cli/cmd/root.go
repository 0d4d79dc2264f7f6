// Package cmd contains the wallet commands.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/keystore"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	url         string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with the key files.")
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Simple wallet for the DDK ledger",
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getKeyPath() string {
	name := accountName
	if !strings.HasSuffix(name, keystore.Ext) {
		name += keystore.Ext
	}

	return filepath.Join(accountPath, name)
}

func loadKeyPair() (signature.KeyPair, error) {
	return keystore.Load(getKeyPath())
}
