// Package transaction implements the transaction engine: canonical bytes,
// signing, verification and the application of typed assets to the
// account ledger.
package transaction

import (
	"encoding/json"
	"fmt"
)

// Type represents the kind of asset a transaction carries.
type Type uint8

// Set of transaction types. Gaps of 10 are reserved for sub variants.
const (
	TypeRegister    Type = 0
	TypeSend        Type = 10
	TypeSignature   Type = 20
	TypeDelegate    Type = 30
	TypeStake       Type = 40
	TypeSendStake   Type = 50
	TypeVote        Type = 60
	TypeMulti       Type = 70
	TypeDapp        Type = 80
	TypeInTransfer  Type = 90
	TypeOutTransfer Type = 100
)

var typeNames = map[Type]string{
	TypeRegister:    "REGISTER",
	TypeSend:        "SEND",
	TypeSignature:   "SIGNATURE",
	TypeDelegate:    "DELEGATE",
	TypeStake:       "STAKE",
	TypeSendStake:   "SENDSTAKE",
	TypeVote:        "VOTE",
	TypeMulti:       "MULTI",
	TypeDapp:        "DAPP",
	TypeInTransfer:  "IN_TRANSFER",
	TypeOutTransfer: "OUT_TRANSFER",
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	if name, exists := typeNames[t]; exists {
		return name
	}
	return fmt.Sprintf("TYPE(%d)", uint8(t))
}

// Valid reports if the type is one of the known types.
func (t Type) Valid() bool {
	_, exists := typeNames[t]
	return exists
}

// =============================================================================

// Transaction represents a signed transaction and its place in the
// processing lifecycle.
type Transaction struct {
	ID              string `json:"id" validate:"omitempty,hex,len=64"`
	BlockID         string `json:"blockId,omitempty" validate:"omitempty,hex,len=64"`
	Type            Type   `json:"type"`
	Timestamp       int32  `json:"timestamp" validate:"min=0"`
	SenderPublicKey string `json:"senderPublicKey" validate:"required,publickey"`
	SenderID        string `json:"senderId,omitempty" validate:"omitempty,address"`
	RecipientID     string `json:"recipientId,omitempty" validate:"omitempty,address"`
	Amount          uint64 `json:"amount"`
	Fee             uint64 `json:"fee"`
	Signature       string `json:"signature" validate:"required,signature"`
	SignSignature   string `json:"signSignature,omitempty" validate:"omitempty,signature"`
	Status          Status `json:"status"`
	Asset           Asset  `json:"asset"`
}

// UnmarshalJSON decodes the asset into the concrete type selected by the
// transaction type.
func (trs *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	aux := struct {
		*alias
		Asset json.RawMessage `json:"asset"`
	}{
		alias: (*alias)(trs),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	asset, err := decodeAsset(trs.Type, aux.Asset)
	if err != nil {
		return err
	}
	trs.Asset = asset

	return nil
}

// Clone returns a copy of the transaction that shares the immutable asset.
func (trs *Transaction) Clone() *Transaction {
	cpy := *trs
	return &cpy
}
