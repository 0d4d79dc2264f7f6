package state

import (
	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/genesis"
)

// Status represents the chain parameters at the current height.
type Status struct {
	Epoch     string `json:"epoch"`
	Height    uint64 `json:"height"`
	Fee       uint64 `json:"fee"`
	Milestone int    `json:"milestone"`
	Nethash   string `json:"nethash"`
	Reward    uint64 `json:"reward"`
	Supply    string `json:"supply"`
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock
}

// RetrieveStatus returns the chain parameters at the current height.
func (s *State) RetrieveStatus() Status {
	height := s.RetrieveLatestBlock().Height
	schedule := s.blocks.Schedule()

	return Status{
		Epoch:     s.genesis.EpochTime.UTC().Format("2006-01-02T15:04:05.000Z"),
		Height:    height,
		Fee:       s.blocks.CalculateFee(),
		Milestone: schedule.CalcMilestone(height),
		Nethash:   s.genesis.Nethash,
		Reward:    schedule.CalcReward(height),
		Supply:    schedule.CalcSupply(height).Dec(),
	}
}
