// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ddknet/node/foundation/blockchain/reward"
	"github.com/ddknet/node/foundation/blockchain/signature"
)

// Fees represents the flat fee charged per transaction type.
type Fees struct {
	Register       uint64 `json:"register"`
	Send           uint64 `json:"send"`
	Signature      uint64 `json:"signature"`
	Delegate       uint64 `json:"delegate"`
	Stake          uint64 `json:"stake"`
	SendStake      uint64 `json:"send_stake"`
	Vote           uint64 `json:"vote"`
	Multisignature uint64 `json:"multisignature"`
	Dapp           uint64 `json:"dapp"`
	InTransfer     uint64 `json:"in_transfer"`
	OutTransfer    uint64 `json:"out_transfer"`
}

// Airdrop represents the referral reward program. Sponsors up the introducer
// chain receive a share of the reward paid from the airdrop account.
type Airdrop struct {
	Account       string   `json:"account"`        // Account the airdrop rewards are paid from.
	RewardPercent uint64   `json:"reward_percent"` // Percent of the staked or rewarded amount paid out.
	LevelShares   []uint64 `json:"level_shares"`   // Percent of the payout per sponsor level, must sum to 100.
}

// Delegate represents a delegate registered at genesis.
type Delegate struct {
	Username  string `json:"username"`
	PublicKey string `json:"public_key"`
}

// Genesis represents the genesis file.
type Genesis struct {
	Date                   time.Time          `json:"date"`
	Nethash                string             `json:"nethash"`                   // Unique id for this running network.
	EpochTime              time.Time          `json:"epoch_time"`                // Block and transaction timestamps are seconds since this time.
	BlockVersion           int32              `json:"block_version"`             // Version written into every new block.
	MaxPayloadLength       int32              `json:"max_payload_length"`        // Maximum number of transaction bytes in a block.
	TotalSupply            uint64             `json:"total_supply"`              // Supply that exists at genesis.
	Milestones             []reward.Milestone `json:"milestones"`                // Block reward schedule.
	Fees                   Fees               `json:"fees"`                      // Flat fees per transaction type.
	MaxVotes               int                `json:"max_votes"`                 // Maximum number of delegates an account may vote for.
	MaxVotesPerTransaction int                `json:"max_votes_per_transaction"` // Maximum number of votes in a single transaction.
	VoteRewardPercent      uint64             `json:"vote_reward_percent"`       // Percent of the frozen stake paid for a vote.
	VoteInterval           int32              `json:"vote_interval"`             // Seconds between the stake start and the first vote milestone.
	RewardPool             string             `json:"reward_pool"`               // Account vote rewards are paid from.
	Airdrop                Airdrop            `json:"airdrop"`
	Delegates              []Delegate         `json:"delegates"`
	Balances               map[string]uint64  `json:"balances"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("validate genesis: %w", err)
	}

	return genesis, nil
}

// Default returns the genesis values of the main network without any
// balances or delegates.
func Default() Genesis {
	return Genesis{
		Date:                   time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC),
		Nethash:                "ddk-mainnet",
		EpochTime:              time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC),
		BlockVersion:           1,
		MaxPayloadLength:       1024 * 1024,
		TotalSupply:            4_500_000_000_000_000,
		MaxVotes:               101,
		MaxVotesPerTransaction: 33,
		VoteRewardPercent:      1,
		VoteInterval:           7 * 24 * 60 * 60,
		Milestones: []reward.Milestone{
			{Height: 10, Reward: 500_000_000},
			{Height: 3_000_010, Reward: 400_000_000},
			{Height: 6_000_010, Reward: 300_000_000},
			{Height: 9_000_010, Reward: 200_000_000},
			{Height: 12_000_010, Reward: 100_000_000},
		},
		Fees: Fees{
			Register:       0,
			Send:           10_000_000,
			Signature:      500_000_000,
			Delegate:       2_500_000_000,
			Stake:          10_000_000,
			SendStake:      10_000_000,
			Vote:           10_000_000,
			Multisignature: 500_000_000,
			Dapp:           2_500_000_000,
			InTransfer:     10_000_000,
			OutTransfer:    10_000_000,
		},
		Airdrop: Airdrop{
			RewardPercent: 10,
			LevelShares:   []uint64{50, 30, 20},
		},
		Balances: map[string]uint64{},
	}
}

// Validate checks the genesis values are usable.
func (g Genesis) Validate() error {
	if g.MaxPayloadLength <= 0 {
		return errors.New("max payload length must be positive")
	}

	if g.MaxVotesPerTransaction <= 0 || g.MaxVotes < g.MaxVotesPerTransaction {
		return errors.New("vote limits are invalid")
	}

	if _, err := reward.New(g.TotalSupply, g.Milestones); err != nil {
		return err
	}

	for _, addr := range []string{g.RewardPool, g.Airdrop.Account} {
		if addr != "" && !signature.IsAddress(addr) {
			return fmt.Errorf("invalid payer address %q", addr)
		}
	}

	for addr := range g.Balances {
		if !signature.IsAddress(addr) {
			return fmt.Errorf("invalid balance address %q", addr)
		}
	}

	var total uint64
	for _, share := range g.Airdrop.LevelShares {
		total += share
	}
	if len(g.Airdrop.LevelShares) > 0 && total != 100 {
		return fmt.Errorf("airdrop level shares sum to %d, exp 100", total)
	}

	return nil
}

// Timestamp converts a wall clock time into seconds since the epoch.
func (g Genesis) Timestamp(t time.Time) int32 {
	return int32(t.Sub(g.EpochTime) / time.Second)
}
