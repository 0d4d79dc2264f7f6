package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/fault"
)

// Asset represents the type specific payload of a transaction. Only the
// asset types of this package implement it.
type Asset interface {
	assetType() Type
}

// AirdropReward represents the referral reward paid to the sponsors of the
// sender. Sponsors are ordered from the closest introducer outwards.
type AirdropReward struct {
	WithAirdropReward bool     `json:"withAirdropReward"`
	Sponsors          []string `json:"sponsors" validate:"max=15,dive,address"`
	TotalReward       uint64   `json:"totalReward"`
}

// Register represents the asset of a REGISTER transaction.
type Register struct {
	Referral string `json:"referral" validate:"omitempty,address"`
}

// Transfer represents the asset of a SEND transaction.
type Transfer struct {
	RecipientID string `json:"recipientId" validate:"required,address"`
}

// Signature represents the asset of a SIGNATURE transaction.
type Signature struct {
	PublicKey string `json:"publicKey" validate:"required,publickey"`
}

// Delegate represents the asset of a DELEGATE transaction.
type Delegate struct {
	Username string `json:"username" validate:"required,min=1,max=20,username"`
	URL      string `json:"url,omitempty" validate:"omitempty,max=255"`
}

// StakeOrder represents the frozen amount of a STAKE transaction.
type StakeOrder struct {
	StakedAmount      uint64 `json:"stakedAmount" validate:"gt=0"`
	NextVoteMilestone uint32 `json:"nextVoteMilestone"`
	StartTime         uint32 `json:"startTime"`
}

// Stake represents the asset of a STAKE transaction.
type Stake struct {
	StakeOrder    StakeOrder    `json:"stakeOrder"`
	AirdropReward AirdropReward `json:"airdropReward"`
}

// SendStake represents the asset of a SENDSTAKE transaction.
type SendStake struct {
	RecipientID string `json:"recipientId" validate:"required,address"`
}

// Vote represents the asset of a VOTE transaction. Every vote is "+" or "-"
// followed by the public key of a delegate.
type Vote struct {
	Votes         []string      `json:"votes" validate:"required,min=1,dive,len=65"`
	Reward        uint64        `json:"reward"`
	Unstake       uint64        `json:"unstake"`
	AirdropReward AirdropReward `json:"airdropReward"`
}

// Multisignature represents the asset of a MULTI transaction. Every key is
// "+" followed by a public key.
type Multisignature struct {
	Min       uint8    `json:"min" validate:"min=1,max=15"`
	Lifetime  uint8    `json:"lifetime" validate:"min=1,max=72"`
	Keysgroup []string `json:"keysgroup" validate:"required,min=1,max=15,dive,len=65"`
}

// Dapp represents the asset of a DAPP transaction.
type Dapp struct {
	Name        string `json:"name" validate:"required,min=1,max=32"`
	Description string `json:"description,omitempty" validate:"max=160"`
	Tags        string `json:"tags,omitempty" validate:"max=160"`
	Type        uint8  `json:"type" validate:"max=1"`
	Category    uint8  `json:"category" validate:"max=8"`
	Link        string `json:"link" validate:"required,max=255,endswith=.zip"`
	Icon        string `json:"icon,omitempty" validate:"omitempty,max=255"`
}

// InTransfer represents the asset of an IN_TRANSFER transaction.
type InTransfer struct {
	DappID string `json:"dappId" validate:"required,hex,len=64"`
}

// OutTransfer represents the asset of an OUT_TRANSFER transaction.
type OutTransfer struct {
	DappID        string `json:"dappId" validate:"required,hex,len=64"`
	TransactionID string `json:"transactionId" validate:"required,hex,len=64"`
}

func (Register) assetType() Type       { return TypeRegister }
func (Transfer) assetType() Type       { return TypeSend }
func (Signature) assetType() Type      { return TypeSignature }
func (Delegate) assetType() Type       { return TypeDelegate }
func (Stake) assetType() Type          { return TypeStake }
func (SendStake) assetType() Type      { return TypeSendStake }
func (Vote) assetType() Type           { return TypeVote }
func (Multisignature) assetType() Type { return TypeMulti }
func (Dapp) assetType() Type           { return TypeDapp }
func (InTransfer) assetType() Type     { return TypeInTransfer }
func (OutTransfer) assetType() Type    { return TypeOutTransfer }

// =============================================================================

// decodeAsset decodes the raw JSON into the asset type of the transaction
// type. An empty payload decodes into the zero asset.
func decodeAsset(t Type, raw json.RawMessage) (Asset, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}

	switch t {
	case TypeRegister:
		return decode[Register](raw)
	case TypeSend:
		return decode[Transfer](raw)
	case TypeSignature:
		return decode[Signature](raw)
	case TypeDelegate:
		return decode[Delegate](raw)
	case TypeStake:
		return decode[Stake](raw)
	case TypeSendStake:
		return decode[SendStake](raw)
	case TypeVote:
		return decode[Vote](raw)
	case TypeMulti:
		return decode[Multisignature](raw)
	case TypeDapp:
		return decode[Dapp](raw)
	case TypeInTransfer:
		return decode[InTransfer](raw)
	case TypeOutTransfer:
		return decode[OutTransfer](raw)
	}

	return nil, fault.Validationf("unknown transaction type %d", uint8(t))
}

func decode[T Asset](raw json.RawMessage) (Asset, error) {
	var asset T
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, fault.Validationf("invalid asset: %s", err)
	}
	return asset, nil
}

// assetAs returns the asset as the concrete type the processor handles.
func assetAs[T Asset](asset Asset) (T, error) {
	a, ok := asset.(T)
	if !ok {
		var zero T
		return zero, fault.Validationf("asset %T does not match %T", asset, zero)
	}
	return a, nil
}
