// Package reward implements the block reward schedule. The reward for a
// height, the milestone the height belongs to and the total supply emitted
// up to a height are pure functions of the configured milestones.
package reward

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Milestone represents the height at which the block reward changes and the
// reward paid for every block from that height on.
type Milestone struct {
	Height uint64 `json:"height"`
	Reward uint64 `json:"reward"`
}

// Schedule computes rewards and supply for a fixed list of milestones.
type Schedule struct {
	genesisSupply uint64
	milestones    []Milestone
}

// New constructs a schedule. Milestones must be in ascending height order
// and must never increase the reward.
func New(genesisSupply uint64, milestones []Milestone) (*Schedule, error) {
	if len(milestones) == 0 {
		return nil, errors.New("at least one milestone is required")
	}

	for i := 1; i < len(milestones); i++ {
		if milestones[i].Height <= milestones[i-1].Height {
			return nil, fmt.Errorf("milestone %d height %d is not above %d", i, milestones[i].Height, milestones[i-1].Height)
		}
		if milestones[i].Reward > milestones[i-1].Reward {
			return nil, fmt.Errorf("milestone %d reward %d increases from %d", i, milestones[i].Reward, milestones[i-1].Reward)
		}
	}

	ms := make([]Milestone, len(milestones))
	copy(ms, milestones)

	s := Schedule{
		genesisSupply: genesisSupply,
		milestones:    ms,
	}

	return &s, nil
}

// CalcMilestone returns the index of the last milestone whose height is at
// or below the specified height. Heights past the final milestone stay on it.
func (s *Schedule) CalcMilestone(height uint64) int {
	idx := 0
	for i, m := range s.milestones {
		if height < m.Height {
			break
		}
		idx = i
	}

	return idx
}

// CalcReward returns the reward for a block at the specified height. Blocks
// below the first milestone are not rewarded.
func (s *Schedule) CalcReward(height uint64) uint64 {
	if height < s.milestones[0].Height {
		return 0
	}

	return s.milestones[s.CalcMilestone(height)].Reward
}

// CalcSupply returns the genesis supply plus every reward emitted from the
// first rewarded height through the specified height. Each milestone segment
// is summed in closed form.
func (s *Schedule) CalcSupply(height uint64) *uint256.Int {
	supply := uint256.NewInt(s.genesisSupply)

	for i, m := range s.milestones {
		if height < m.Height {
			break
		}

		end := height
		if i+1 < len(s.milestones) && s.milestones[i+1].Height-1 < end {
			end = s.milestones[i+1].Height - 1
		}

		blocks := uint256.NewInt(end - m.Height + 1)
		segment := new(uint256.Int).Mul(blocks, uint256.NewInt(m.Reward))
		supply.Add(supply, segment)
	}

	return supply
}

// Milestones returns a copy of the configured milestones.
func (s *Schedule) Milestones() []Milestone {
	ms := make([]Milestone, len(s.milestones))
	copy(ms, s.milestones)
	return ms
}
