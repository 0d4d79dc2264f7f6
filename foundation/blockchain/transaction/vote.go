package transaction

import (
	"encoding/json"
	"slices"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ethereum/go-ethereum/common/math"
)

// vote adds and removes delegates from the sender's vote list. Voting pays
// a reward proportional to the sender's frozen stake and may unfreeze part
// of it.
type vote struct {
	*env
}

func (p *vote) Create(raw json.RawMessage) (Asset, error) {
	asset, err := decodeAsset(TypeVote, raw)
	if err != nil {
		return nil, err
	}

	if len(asset.(Vote).Votes) == 0 {
		return nil, fault.Validation("missing votes")
	}

	return asset, nil
}

func (p *vote) prepare(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a := trs.Asset.(Vote)

	reward, err := p.reward(sender)
	if err != nil {
		return err
	}
	a.Reward = reward

	ar, err := p.airdrop(sender, reward, r)
	if err != nil {
		return err
	}
	a.AirdropReward = ar

	trs.Asset = a
	return nil
}

// reward returns the vote reward owed on the sender's frozen stake. No
// reward is paid when the network has no reward pool.
func (p *vote) reward(sender accounts.Account) (uint64, error) {
	if p.genesis.RewardPool == "" {
		return 0, nil
	}

	reward, overflow := math.SafeMul(sender.UTotalFrozeAmount, p.genesis.VoteRewardPercent)
	if overflow {
		return 0, fault.Verification("vote reward overflows")
	}

	return reward / 100, nil
}

func (p *vote) Bytes(asset Asset) ([]byte, error) {
	a, err := assetAs[Vote](asset)
	if err != nil {
		return nil, err
	}

	var dst []byte
	for _, v := range a.Votes {
		sign, publicKey, err := splitVote(v)
		if err != nil {
			return nil, fault.Encoding("asset.votes", err)
		}

		dst = append(dst, sign)
		if dst, err = codec.PutHex(dst, "asset.votes", publicKey, codec.HexLength); err != nil {
			return nil, err
		}
	}

	dst = codec.PutUint64(dst, a.Reward)
	dst = codec.PutUint64(dst, a.Unstake)

	return airdropBytes(dst, a.AirdropReward)
}

func (p *vote) CalculateFee(trs *Transaction, sender accounts.Account) uint64 {
	return p.genesis.Fees.Vote
}

func (p *vote) Verify(trs *Transaction, sender accounts.Account, r accounts.Reader) error {
	a, err := assetAs[Vote](trs.Asset)
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

	switch {
	case len(a.Votes) == 0:
		msgs = append(msgs, "invalid votes, must not be empty")
	case len(a.Votes) > p.genesis.MaxVotesPerTransaction:
		msgs = append(msgs, "voting limit exceeded")
	}

	seen := make(map[string]bool, len(a.Votes))
	current := len(sender.UDelegates)

	for _, v := range a.Votes {
		sign, publicKey, err := splitVote(v)
		if err != nil {
			msgs = append(msgs, err.Error())
			continue
		}

		if seen[publicKey] {
			msgs = append(msgs, "multiple votes for the same delegate")
			continue
		}
		seen[publicKey] = true

		voted := slices.Contains(sender.UDelegates, publicKey)

		switch sign {
		case '+':
			if _, exists := r.DelegateByPublicKey(publicKey); !exists {
				msgs = append(msgs, "delegate not found: "+publicKey)
				continue
			}
			if voted {
				msgs = append(msgs, "failed to add vote, delegate already voted: "+publicKey)
				continue
			}
			current++

		case '-':
			if !voted {
				msgs = append(msgs, "failed to remove vote, delegate not voted: "+publicKey)
				continue
			}
			current--
		}
	}

	if current > p.genesis.MaxVotes {
		msgs = append(msgs, "maximum number of votes exceeded")
	}

	if sender.UTotalFrozeAmount == 0 {
		msgs = append(msgs, "no frozen stake to vote with")
	}

	if a.Unstake > sender.UTotalFrozeAmount {
		msgs = append(msgs, "unstake exceeds the frozen amount")
	}

	reward, err := p.reward(sender)
	switch {
	case err != nil:
		msgs = append(msgs, fault.Messages(err)...)
	case a.Reward != reward:
		msgs = append(msgs, "invalid vote reward")
	default:
		if err := p.verifyAirdrop(a.AirdropReward, sender, reward, r); err != nil {
			msgs = append(msgs, fault.Messages(err)...)
		}
	}

	owed := map[string]uint64{p.genesis.RewardPool: a.Reward}
	owed[p.genesis.Airdrop.Account] += p.payoutTotal(a.AirdropReward)
	msgs = append(msgs, verifyFunding(owed, r)...)

	if len(msgs) > 0 {
		return fault.Verification(msgs...)
	}

	return nil
}

func (p *vote) ApplyUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Vote](trs.Asset)
	if err != nil {
		return err
	}

	if err := p.vote(trs.SenderID, a, b, false, false); err != nil {
		return err
	}

	if err := reserve(b, p.genesis.RewardPool, a.Reward); err != nil {
		return err
	}

	return p.reserveAirdrop(a.AirdropReward, b)
}

func (p *vote) UndoUnconfirmed(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Vote](trs.Asset)
	if err != nil {
		return err
	}

	if err := p.releaseAirdrop(a.AirdropReward, b); err != nil {
		return err
	}

	if err := release(b, p.genesis.RewardPool, a.Reward); err != nil {
		return err
	}

	return p.vote(trs.SenderID, a, b, false, true)
}

func (p *vote) Apply(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Vote](trs.Asset)
	if err != nil {
		return err
	}

	if err := p.vote(trs.SenderID, a, b, true, false); err != nil {
		return err
	}

	if err := payout(b, p.genesis.RewardPool, trs.SenderID, a.Reward); err != nil {
		return err
	}

	return p.applyAirdrop(a.AirdropReward, b)
}

func (p *vote) Undo(trs *Transaction, b *accounts.Batch) error {
	a, err := assetAs[Vote](trs.Asset)
	if err != nil {
		return err
	}

	if err := p.undoAirdrop(a.AirdropReward, b); err != nil {
		return err
	}

	if err := unpay(b, trs.SenderID, p.genesis.RewardPool, a.Reward); err != nil {
		return err
	}

	return p.vote(trs.SenderID, a, b, true, true)
}

// vote updates the vote list of the sender, the vote totals of the
// delegates and the frozen amount. The confirmed flag selects the confirmed
// or unconfirmed fields, undo reverses every vote.
func (p *vote) vote(sender string, a Vote, b *accounts.Batch, confirmed bool, undo bool) error {
	for _, v := range a.Votes {
		sign, publicKey, err := splitVote(v)
		if err != nil {
			return fault.Verification(err.Error())
		}

		add := sign == '+'
		if undo {
			add = !add
		}

		err = b.Modify(sender, func(acct *accounts.Account) error {
			list := &acct.UDelegates
			if confirmed {
				list = &acct.Delegates
			}

			var ok bool
			*list, ok = updateVotes(*list, publicKey, add)
			if !ok {
				return fault.Verificationf("failed to update vote for %s", publicKey)
			}
			return nil
		})
		if err != nil {
			return err
		}

		dlg, exists := b.DelegateByPublicKey(publicKey)
		if !exists {
			return fault.Verificationf("delegate not found: %s", publicKey)
		}

		err = b.Modify(dlg.Address, func(acct *accounts.Account) error {
			total := &acct.UVote
			if confirmed {
				total = &acct.Vote
			}

			switch {
			case add:
				*total++
			case *total == 0:
				return fault.Verificationf("vote total of %s underflows", publicKey)
			default:
				*total--
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return b.Modify(sender, func(acct *accounts.Account) error {
		frozen := &acct.UTotalFrozeAmount
		if confirmed {
			frozen = &acct.TotalFrozeAmount
		}

		var failed bool
		switch undo {
		case true:
			*frozen, failed = math.SafeAdd(*frozen, a.Unstake)
		default:
			*frozen, failed = math.SafeSub(*frozen, a.Unstake)
		}
		if failed {
			return fault.Verification("unstake exceeds the frozen amount")
		}

		if confirmed {
			switch undo {
			case true:
				acct.VoteCount--
			default:
				acct.VoteCount++
			}
		}
		return nil
	})
}

// updateVotes adds or removes the public key keeping the list sorted, so
// removing and adding back a key restores the same list.
func updateVotes(list []string, publicKey string, add bool) ([]string, bool) {
	i, found := slices.BinarySearch(list, publicKey)

	switch {
	case add && !found:
		return slices.Insert(list, i, publicKey), true
	case !add && found:
		return slices.Delete(list, i, i+1), true
	}

	return list, false
}

// splitVote separates a vote into its sign and the delegate public key.
func splitVote(v string) (byte, string, error) {
	if len(v) != 1+2*signature.PublicKeyLength {
		return 0, "", fault.Validationf("invalid vote %q", v)
	}

	if v[0] != '+' && v[0] != '-' {
		return 0, "", fault.Validationf("invalid vote sign in %q", v)
	}

	if !signature.IsPublicKey(v[1:]) {
		return 0, "", fault.Validationf("invalid vote public key in %q", v)
	}

	return v[0], v[1:], nil
}

func (p *vote) Table() string {
	return storage.TableVotes
}

func (p *vote) DBRead(row storage.Row) (Asset, error) {
	r := storage.NewRowReader(row)

	a := Vote{
		Votes:         r.List("v_votes"),
		Reward:        r.Uint64("v_reward"),
		Unstake:       r.Uint64("v_unstake"),
		AirdropReward: airdropFromRow(r, "v_"),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

func (p *vote) DBSave(trs *Transaction) *storage.Record {
	a, _ := trs.Asset.(Vote)

	values := map[string]any{
		"transactionId": trs.ID,
		"votes":         a.Votes,
		"reward":        a.Reward,
		"unstake":       a.Unstake,
	}
	airdropValues(values, a.AirdropReward)

	return &storage.Record{
		Table:  storage.TableVotes,
		Fields: []string{"transactionId", "votes", "reward", "unstake", "withAirdropReward", "sponsors", "totalReward"},
		Values: values,
	}
}

func (p *vote) Normalize(asset Asset) error {
	return p.normalize(asset)
}
