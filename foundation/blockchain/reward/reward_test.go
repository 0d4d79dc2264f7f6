package reward_test

import (
	"testing"

	"github.com/ddknet/node/foundation/blockchain/reward"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestSchedule(t *testing.T) {
	type table struct {
		name      string
		height    uint64
		milestone int
		reward    uint64
		supply    uint64
	}

	tt := []table{
		{name: "before-rewards", height: 5, milestone: 0, reward: 0, supply: 100},
		{name: "first-rewarded", height: 10, milestone: 0, reward: 5, supply: 105},
		{name: "end-of-first", height: 19, milestone: 0, reward: 5, supply: 150},
		{name: "second-start", height: 20, milestone: 1, reward: 3, supply: 153},
		{name: "past-final", height: 35, milestone: 2, reward: 1, supply: 186},
	}

	sch, err := reward.New(100, []reward.Milestone{
		{Height: 10, Reward: 5},
		{Height: 20, Reward: 3},
		{Height: 30, Reward: 1},
	})
	if err != nil {
		t.Fatalf("Should be able to construct a schedule: %s", err)
	}

	t.Log("Given the need to calculate rewards and supply by height.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				if got := sch.CalcMilestone(tst.height); got != tst.milestone {
					t.Fatalf("\t%s\tTest %d:\tShould get milestone %d, got %d.", failed, testID, tst.milestone, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get the right milestone.", success, testID)

				if got := sch.CalcReward(tst.height); got != tst.reward {
					t.Fatalf("\t%s\tTest %d:\tShould get reward %d, got %d.", failed, testID, tst.reward, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get the right reward.", success, testID)

				if got := sch.CalcSupply(tst.height); got.Uint64() != tst.supply {
					t.Fatalf("\t%s\tTest %d:\tShould get supply %d, got %s.", failed, testID, tst.supply, got.Dec())
				}
				t.Logf("\t%s\tTest %d:\tShould get the right supply.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func TestScheduleLargeHeights(t *testing.T) {
	t.Log("Given the need to calculate supply far into the chain.")
	{
		sch, err := reward.New(10_000_000_000_000_000, []reward.Milestone{
			{Height: 1, Reward: 500_000_000},
			{Height: 3_000_001, Reward: 400_000_000},
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a schedule: %s", failed, err)
		}

		got := sch.CalcSupply(10_000_000)
		exp := "14300000000000000"
		if got.Dec() != exp {
			t.Logf("\t%s\tgot: %s", failed, got.Dec())
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould sum every segment in closed form.", failed)
		}
		t.Logf("\t%s\tShould sum every segment in closed form.", success)
	}
}

func TestScheduleValidation(t *testing.T) {
	t.Log("Given the need to reject invalid milestone lists.")
	{
		if _, err := reward.New(0, nil); err == nil {
			t.Fatalf("\t%s\tShould reject an empty list.", failed)
		}
		t.Logf("\t%s\tShould reject an empty list.", success)

		if _, err := reward.New(0, []reward.Milestone{{Height: 10, Reward: 1}, {Height: 5, Reward: 1}}); err == nil {
			t.Fatalf("\t%s\tShould reject descending heights.", failed)
		}
		t.Logf("\t%s\tShould reject descending heights.", success)

		if _, err := reward.New(0, []reward.Milestone{{Height: 1, Reward: 1}, {Height: 5, Reward: 2}}); err == nil {
			t.Fatalf("\t%s\tShould reject an increasing reward.", failed)
		}
		t.Logf("\t%s\tShould reject an increasing reward.", success)
	}
}
