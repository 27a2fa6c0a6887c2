package reward

import (
	"fmt"
	"math/big"

	"github.com/ardriveapp/astatine/types/distribution"
)

// Allocate splits amount between the recipients.
//
// Weighted recipients receive floor(amount * weight / totalWeight), plain
// identities floor(amount / count). The truncation can leave a remainder that
// is not distributed to anyone. Recipients whose share rounds to zero are
// still returned so the run keeps a full record of who was considered.
func Allocate(
	amount int64,
	recipients distribution.Recipients,
) []distribution.Payout {
	if amount <= 0 || recipients == nil || recipients.Len() == 0 {
		return []distribution.Payout{}
	}

	switch r := recipients.(type) {
	case distribution.WeightedList:
		return allocateWeighted(amount, r)
	case distribution.IdentityList:
		return allocateEqual(amount, r)
	default:
		panic(fmt.Sprintf("unsupported recipients type %T", recipients))
	}
}

func allocateWeighted(
	amount int64,
	recipients distribution.WeightedList,
) []distribution.Payout {
	total := new(big.Int)
	for _, r := range recipients {
		total.Add(total, new(big.Int).SetUint64(r.Weight))
	}
	if total.Sign() == 0 {
		return []distribution.Payout{}
	}

	bigAmount := big.NewInt(amount)
	payouts := make([]distribution.Payout, 0, len(recipients))
	for _, r := range recipients {
		// amount * weight can exceed 64 bits for large uploads
		qty := new(big.Int).SetUint64(r.Weight)
		qty.Mul(qty, bigAmount)
		qty.Quo(qty, total)

		payouts = append(payouts, distribution.Payout{
			Recipient:   r.Identity,
			Quantity:    qty.Int64(),
			WeightBasis: r.Weight,
			Weighted:    true,
		})
	}

	return payouts
}

func allocateEqual(
	amount int64,
	recipients distribution.IdentityList,
) []distribution.Payout {
	share := amount / int64(len(recipients))
	payouts := make([]distribution.Payout, 0, len(recipients))
	for _, identity := range recipients {
		payouts = append(payouts, distribution.Payout{
			Recipient: identity,
			Quantity:  share,
		})
	}

	return payouts
}

// Remainder returns the part of amount that truncation left undistributed.
func Remainder(amount int64, payouts []distribution.Payout) int64 {
	var total int64
	for _, p := range payouts {
		total += p.Quantity
	}
	return amount - total
}
