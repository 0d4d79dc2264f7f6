package transaction

import (
	"encoding/json"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ethereum/go-ethereum/common/math"
)

// stake freezes part of the sender's balance. Frozen stake earns vote
// rewards and pays an airdrop to the sender's sponsors.
type stake struct {
	*env
}

func (p *stake) Create(raw json.RawMessage) (Asset, error) {
	asset, err := decodeAsset(TypeStake, raw)
	if err != nil {
		return nil, err
	}

	if asset.(Stake).StakeOrder.StakedAmount == 0 {
		return nil, fault.Validation("missing staked amount")
	}

	return asset, nil
}

func (p *stake) prepare(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a := trs.Asset.(Stake)

	a.StakeOrder.StartTime = uint32(trs.Timestamp)
	a.StakeOrder.NextVoteMilestone = uint32(trs.Timestamp + p.genesis.VoteInterval)

	ar, err := p.airdrop(sender, a.StakeOrder.StakedAmount, r)
	if err != nil {
		return err
	}
	a.AirdropReward = ar

	trs.Asset = a
	return nil
}

func (p *stake) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Stake](asset)
	if err != nil {
		return nil, err
	}

	dst := codec.PutUint64(nil, a.StakeOrder.StakedAmount)
	dst = codec.PutUint32(dst, a.StakeOrder.NextVoteMilestone)
	dst = codec.PutUint32(dst, a.StakeOrder.StartTime)

	return airdropBytes(dst, a.AirdropReward)
}

func (p *stake) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Stake
}

func (p *stake) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Stake](trs.Asset)
	if err != nil {
		return err
	}

	var msgs []string

	if trs.RecipientID != "" {
		msgs = append(msgs, "invalid recipient")
	}

	if trs.Amount != 0 {
		msgs = append(msgs, "invalid transaction amount")
	}

	order := a.StakeOrder
	if order.StakedAmount == 0 {
		msgs = append(msgs, "invalid staked amount")
	}

	if int64(order.StartTime) != int64(trs.Timestamp) {
		msgs = append(msgs, "invalid stake start time")
	}

	if int64(order.NextVoteMilestone) != int64(order.StartTime)+int64(p.genesis.VoteInterval) {
		msgs = append(msgs, "invalid next vote milestone")
	}

	need, overflow := math.SafeAdd(order.StakedAmount, trs.Fee)
	if overflow || sender.USpendable() < need {
		msgs = append(msgs, "not enough balance to stake")
	}

	if err := p.verifyAirdrop(a.AirdropReward, sender, order.StakedAmount, r); err != nil {
		msgs = append(msgs, fault.Messages(err)...)
	}

	owed := map[string]uint64{p.genesis.Airdrop.Account: p.payoutTotal(a.AirdropReward)}
	msgs = append(msgs, verifyFunding(owed, r)...)

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *stake) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Stake](trs.Asset)
	if err != nil {
		return err
	}

	err = b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		frozen, overflow := math.SafeAdd(acct.UTotalFrozeAmount, a.StakeOrder.StakedAmount)
		if overflow || frozen > acct.UBalance {
			return fault.Verification("not enough balance to stake")
		}
		acct.UTotalFrozeAmount = frozen
		return nil
	})
	if err != nil {
		return err
	}

	return p.reserveAirdrop(a.AirdropReward, b)
}

func (p *stake) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Stake](trs.Asset)
	if err != nil {
		return err
	}

	if err := p.releaseAirdrop(a.AirdropReward, b); err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		frozen, underflow := math.SafeSub(acct.UTotalFrozeAmount, a.StakeOrder.StakedAmount)
		if underflow {
			return fault.Verification("unconfirmed frozen amount underflows")
		}
		acct.UTotalFrozeAmount = frozen
		return nil
	})
}

func (p *stake) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Stake](trs.Asset)
	if err != nil {
		return err
	}

	err = b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		frozen, overflow := math.SafeAdd(acct.TotalFrozeAmount, a.StakeOrder.StakedAmount)
		if overflow || frozen > acct.Balance {
			return fault.Verification("not enough balance to stake")
		}
		acct.TotalFrozeAmount = frozen
		return nil
	})
	if err != nil {
		return err
	}

	return p.applyAirdrop(a.AirdropReward, b)
}

func (p *stake) Undo(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Stake](trs.Asset)
	if err != nil {
		return err
	}

	if err := p.undoAirdrop(a.AirdropReward, b); err != nil {
		return err
	}

	return b.Modify(trs.SenderID, func(acct *accounts.Account) error {
		frozen, underflow := math.SafeSub(acct.TotalFrozeAmount, a.StakeOrder.StakedAmount)
		if underflow {
			return fault.Verification("frozen amount underflows")
		}
		acct.TotalFrozeAmount = frozen
		return nil
	})
}

func (p *stake) Table() string {
	return storage.TableStakeOrders
}

func (p *stake) DBRead(row storage.Row) (Asset, error) {
	r := storage.NewRowReader(row)

	a := Stake{
		StakeOrder: StakeOrder{
			StakedAmount:      r.Uint64("so_stakedAmount"),
			NextVoteMilestone: r.Uint32("so_nextVoteMilestone"),
			StartTime:         r.Uint32("so_startTime"),
		},
		AirdropReward: airdropFromRow(r, "so_"),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

func (p *stake) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Stake)

	values := map[string]any{
		"transactionId":     trs.ID,
		"stakedAmount":      a.StakeOrder.StakedAmount,
		"nextVoteMilestone": a.StakeOrder.NextVoteMilestone,
		"startTime":         a.StakeOrder.StartTime,
	}
	airdropValues(values, a.AirdropReward)

	return &storage.Record{
		Table:  storage.TableStakeOrders,
		Fields: []string{"transactionId", "stakedAmount", "nextVoteMilestone", "startTime", "withAirdropReward", "sponsors", "totalReward"},
		Values: values,
	}
}

func (p *stake) Normalize(asset Asset) error {
	return p.normalize(asset)
}
