package reward_test

import (
	"math"
	"testing"

	"github.com/ardriveapp/astatine/node/reward"
	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quantities(payouts []distribution.Payout) map[string]int64 {
	out := make(map[string]int64, len(payouts))
	for _, p := range payouts {
		out[p.Recipient] = p.Quantity
	}
	return out
}

func sum(payouts []distribution.Payout) int64 {
	var total int64
	for _, p := range payouts {
		total += p.Quantity
	}
	return total
}

func TestAllocate_Weighted(t *testing.T) {
	payouts := reward.Allocate(40, distribution.WeightedList{
		{Identity: "A", Weight: 300},
		{Identity: "B", Weight: 100},
	})

	require.Len(t, payouts, 2)
	assert.Equal(t, map[string]int64{"A": 30, "B": 10}, quantities(payouts))
	assert.Equal(t, int64(0), reward.Remainder(40, payouts))

	assert.True(t, payouts[0].Weighted)
	assert.Equal(t, uint64(300), payouts[0].WeightBasis)
	assert.Equal(t, uint64(100), payouts[1].WeightBasis)
}

func TestAllocate_WeightedTruncation(t *testing.T) {
	payouts := reward.Allocate(10, distribution.WeightedList{
		{Identity: "A", Weight: 1},
		{Identity: "B", Weight: 1},
		{Identity: "C", Weight: 1},
	})

	assert.Equal(t, map[string]int64{"A": 3, "B": 3, "C": 3}, quantities(payouts))
	assert.Equal(t, int64(9), sum(payouts))
	assert.Equal(t, int64(1), reward.Remainder(10, payouts))
}

func TestAllocate_Unweighted(t *testing.T) {
	payouts := reward.Allocate(10, distribution.IdentityList{"A", "B", "C"})

	require.Len(t, payouts, 3)
	for _, p := range payouts {
		assert.Equal(t, int64(3), p.Quantity)
		assert.False(t, p.Weighted)
		assert.Zero(t, p.WeightBasis)
	}
	assert.Equal(t, int64(1), reward.Remainder(10, payouts))

	payouts = reward.Allocate(12, distribution.IdentityList{"A", "B", "C"})
	assert.Equal(t, int64(12), sum(payouts))
}

func TestAllocate_Degenerate(t *testing.T) {
	assert.Empty(t, reward.Allocate(100, distribution.WeightedList{}))
	assert.Empty(t, reward.Allocate(100, distribution.IdentityList{}))
	assert.Empty(t, reward.Allocate(100, nil))
	assert.Empty(t, reward.Allocate(0, distribution.IdentityList{"A"}))
	assert.Empty(t, reward.Allocate(-5, distribution.WeightedList{{Identity: "A", Weight: 1}}))
	assert.Empty(t, reward.Allocate(100, distribution.WeightedList{{Identity: "A", Weight: 0}}))
}

func TestAllocate_ZeroShareIsKept(t *testing.T) {
	payouts := reward.Allocate(10, distribution.WeightedList{
		{Identity: "whale", Weight: 1_000_000},
		{Identity: "minnow", Weight: 1},
	})

	require.Len(t, payouts, 2)
	assert.Equal(t, int64(9), payouts[0].Quantity)
	assert.True(t, payouts[0].Submittable())
	assert.Equal(t, int64(0), payouts[1].Quantity)
	assert.False(t, payouts[1].Submittable())
}

func TestAllocate_LargeWeightsDoNotOverflow(t *testing.T) {
	// 4 PiB uploads times a large amount overflows 64 bits
	huge := uint64(4 << 50)
	payouts := reward.Allocate(math.MaxInt32, distribution.WeightedList{
		{Identity: "A", Weight: huge * 3},
		{Identity: "B", Weight: huge},
	})

	assert.Equal(t, int64(math.MaxInt32)*3/4, payouts[0].Quantity)
	assert.Equal(t, int64(math.MaxInt32)/4, payouts[1].Quantity)
	assert.LessOrEqual(t, sum(payouts), int64(math.MaxInt32))
}

func TestAllocate_NeverExceedsAmount(t *testing.T) {
	weights := []uint64{7, 13, 1, 999, 52428800, 3, 3, 3}
	for amount := int64(1); amount < 2000; amount += 37 {
		list := distribution.WeightedList{}
		ids := distribution.IdentityList{}
		for i, w := range weights {
			id := string(rune('a' + i))
			list = append(list, distribution.WeightedRecipient{Identity: id, Weight: w})
			ids = append(ids, id)
		}

		weighted := reward.Allocate(amount, list)
		assert.LessOrEqual(t, sum(weighted), amount)
		assert.GreaterOrEqual(t, reward.Remainder(amount, weighted), int64(0))

		equal := reward.Allocate(amount, ids)
		assert.LessOrEqual(t, sum(equal), amount)
		assert.Equal(t, amount%int64(len(ids)), reward.Remainder(amount, equal))
	}
}
