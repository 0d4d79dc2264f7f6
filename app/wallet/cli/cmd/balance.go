package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type balance struct {
	Success            bool   `json:"success"`
	Error              string `json:"error"`
	Balance            uint64 `json:"balance"`
	UnconfirmedBalance uint64 `json:"unconfirmedBalance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	kp, err := loadKeyPair()
	if err != nil {
		return err
	}
	address := kp.Address()

	resp, err := http.Get(fmt.Sprintf("%s/api/accounts/getBalance?address=%s", url, address))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var bal balance
	if err := json.NewDecoder(resp.Body).Decode(&bal); err != nil {
		return err
	}

	if !bal.Success {
		return fmt.Errorf("query balance: %s", bal.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "For account: %s\n", address)
	fmt.Fprintf(cmd.OutOrStdout(), "Balance: %d\n", bal.Balance)
	fmt.Fprintf(cmd.OutOrStdout(), "Unconfirmed: %d\n", bal.UnconfirmedBalance)
	return nil
}
