package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/spf13/cobra"
)

var (
	to          string
	amount      uint64
	fee         uint64
	genesisPath string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "f", 0, "Fee to pay, zero pays the network fee.")
	sendCmd.Flags().StringVarP(&genesisPath, "genesis", "g", "", "Path to the genesis file, empty uses the main network.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	kp, err := loadKeyPair()
	if err != nil {
		return err
	}

	gen := genesis.Default()
	if genesisPath != "" {
		if gen, err = genesis.Load(genesisPath); err != nil {
			return err
		}
	}

	// The wallet signs offline so the engine runs against an empty ledger.
	engine, err := transaction.New(transaction.Config{
		Genesis: gen,
		Ledger:  accounts.New(gen),
	})
	if err != nil {
		return err
	}

	trs, err := engine.Create(transaction.CreateArgs{
		Type:        transaction.TypeSend,
		KeyPair:     kp,
		RecipientID: to,
		Amount:      amount,
		Fee:         fee,
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(struct {
		Transaction *transaction.Transaction `json:"transaction"`
	}{
		Transaction: trs,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPut, fmt.Sprintf("%s/api/transactions", url), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Success       bool     `json:"success"`
		Error         string   `json:"error"`
		Errors        []string `json:"errors"`
		TransactionID string   `json:"transactionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("send refused: %s %v", result.Error, result.Errors)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.TransactionID)
	return nil
}
