package transaction

import (
	"fmt"
	"slices"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ethereum/go-ethereum/common/math"
)

// airdrop computes the referral reward owed for the base amount. Sponsors
// are found by walking the introducer chain of the sender, one sponsor per
// configured level.
func (e *env) airdrop(sender accounts.Account, base uint64, r accounts.Reader) (AirdropReward, error) {
	cfg := e.genesis.Airdrop
	if cfg.Account == "" || cfg.RewardPercent == 0 || len(cfg.LevelShares) == 0 {
		return AirdropReward{}, nil
	}

	var sponsors []string
	for cur := sender.Introducer; cur != "" && len(sponsors) < len(cfg.LevelShares); {
		if cur == sender.Address || slices.Contains(sponsors, cur) {
			break
		}
		sponsors = append(sponsors, cur)

		acct, exists := r.Account(cur)
		if !exists {
			break
		}
		cur = acct.Introducer
	}

	if len(sponsors) == 0 {
		return AirdropReward{}, nil
	}

	total, overflow := math.SafeMul(base, cfg.RewardPercent)
	if overflow {
		return AirdropReward{}, fault.Verification("airdrop reward overflows")
	}

	ar := AirdropReward{
		WithAirdropReward: true,
		Sponsors:          sponsors,
		TotalReward:       total / 100,
	}

	return ar, nil
}

// verifyAirdrop checks the airdrop matches the one the ledger yields.
func (e *env) verifyAirdrop(ar AirdropReward, sender accounts.Account, base uint64, r accounts.Reader) error {
	exp, err := e.airdrop(sender, base, r)
	if err != nil {
		return err
	}

	if ar.WithAirdropReward != exp.WithAirdropReward || ar.TotalReward != exp.TotalReward || !slices.Equal(ar.Sponsors, exp.Sponsors) {
		return fault.Verificationf("invalid airdrop reward, got %d for %d sponsors, exp %d for %d sponsors",
			ar.TotalReward, len(ar.Sponsors), exp.TotalReward, len(exp.Sponsors))
	}

	return nil
}

// payouts returns the amount paid to each sponsor.
func (e *env) payouts(ar AirdropReward) []uint64 {
	if !ar.WithAirdropReward {
		return nil
	}

	shares := e.genesis.Airdrop.LevelShares

	amounts := make([]uint64, 0, len(ar.Sponsors))
	for i := range ar.Sponsors {
		if i >= len(shares) {
			break
		}
		amounts = append(amounts, ar.TotalReward*shares[i]/100)
	}

	return amounts
}

// payoutTotal returns the sum paid out of the airdrop account.
func (e *env) payoutTotal(ar AirdropReward) uint64 {
	var total uint64
	for _, amount := range e.payouts(ar) {
		total += amount
	}
	return total
}

// reserveAirdrop holds the sponsor payouts on the unconfirmed balance of
// the airdrop account until the transaction is confirmed.
func (e *env) reserveAirdrop(ar AirdropReward, b *accounts.Batch) error {
	return reserve(b, e.genesis.Airdrop.Account, e.payoutTotal(ar))
}

// releaseAirdrop returns a reservation made by reserveAirdrop.
func (e *env) releaseAirdrop(ar AirdropReward, b *accounts.Batch) error {
	return release(b, e.genesis.Airdrop.Account, e.payoutTotal(ar))
}

// applyAirdrop moves the reserved sponsor payouts out of the airdrop
// account.
func (e *env) applyAirdrop(ar AirdropReward, b *accounts.Batch) error {
	from := e.genesis.Airdrop.Account

	for i, amount := range e.payouts(ar) {
		sponsor := ar.Sponsors[i]
		if err := payout(b, from, sponsor, amount); err != nil {
			return err
		}

		err := b.Modify(sponsor, func(a *accounts.Account) error {
			a.GroupBonus += amount
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// undoAirdrop returns the sponsor payouts to the reservation of the
// airdrop account.
func (e *env) undoAirdrop(ar AirdropReward, b *accounts.Batch) error {
	to := e.genesis.Airdrop.Account

	for i, amount := range e.payouts(ar) {
		sponsor := ar.Sponsors[i]
		if err := unpay(b, sponsor, to, amount); err != nil {
			return err
		}

		err := b.Modify(sponsor, func(a *accounts.Account) error {
			bonus, underflow := math.SafeSub(a.GroupBonus, amount)
			if underflow {
				return fault.Verificationf("group bonus of %s underflows", sponsor)
			}
			a.GroupBonus = bonus
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// verifyFunding checks every paying account holds the amount it owes on
// its unconfirmed balance.
func verifyFunding(owed map[string]uint64, r accounts.Reader) []string {
	var msgs []string
	for payer, amount := range owed {
		if amount == 0 {
			continue
		}

		acct, _ := r.Account(payer)
		if acct.USpendable() < amount {
			msgs = append(msgs, fmt.Sprintf("account %s cannot pay %d: %d available", payer, amount, acct.USpendable()))
		}
	}

	slices.Sort(msgs)
	return msgs
}

// =============================================================================

// airdropBytes encodes the airdrop as a flag byte followed, when set, by the
// total, the sponsor count and every sponsor address.
func airdropBytes(dst []byte, ar AirdropReward) ([]byte, error) {
	if !ar.WithAirdropReward {
		return append(dst, 0), nil
	}

	if len(ar.Sponsors) > 255 {
		return nil, fault.Validation("too many airdrop sponsors")
	}

	dst = append(dst, 1)
	dst = codec.PutUint64(dst, ar.TotalReward)
	dst = append(dst, uint8(len(ar.Sponsors)))

	var err error
	for _, sponsor := range ar.Sponsors {
		if dst, err = codec.PutAddress(dst, "airdropReward.sponsors", sponsor); err != nil {
			return nil, err
		}
	}

	return dst, nil
}

func airdropValues(values map[string]any, ar AirdropReward) {
	values["withAirdropReward"] = ar.WithAirdropReward
	values["sponsors"] = ar.Sponsors
	values["totalReward"] = ar.TotalReward
}

func airdropFromRow(r *storage.RowReader, prefix string) AirdropReward {
	return AirdropReward{
		WithAirdropReward: r.Bool(prefix + "withAirdropReward"),
		Sponsors:          r.List(prefix + "sponsors"),
		TotalReward:       r.Uint64(prefix + "totalReward"),
	}
}

// reserve holds the amount on the unconfirmed balance of the payer.
func reserve(b *accounts.Batch, payer string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return b.UDebit(payer, amount)
}

// release returns an amount held by reserve.
func release(b *accounts.Batch, payer string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return b.UCredit(payer, amount)
}

// payout moves an amount the payer reserved at the unconfirmed level. The
// payer is debited at the confirmed level and the recipient is credited at
// both levels.
func payout(b *accounts.Batch, from string, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	if err := b.Debit(from, amount); err != nil {
		return err
	}
	if err := b.Credit(to, amount); err != nil {
		return err
	}
	return b.UCredit(to, amount)
}

// unpay reverses payout, leaving the amount reserved by the payer.
func unpay(b *accounts.Batch, from string, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	if err := b.Debit(from, amount); err != nil {
		return err
	}
	if err := b.UDebit(from, amount); err != nil {
		return err
	}
	return b.Credit(to, amount)
}
