package distribution

// WeightedRecipient is a recipient identity with the number of bytes it
// contributed inside the aggregation window.
type WeightedRecipient struct {
	Identity string `json:"address"`
	Weight   uint64 `json:"weight"`
}

// Recipients is the set of addresses a run pays out to. It is either a
// WeightedList or an IdentityList; no other implementation exists.
type Recipients interface {
	Len() int
	recipients()
}

// WeightedList is paid proportionally to each recipient's weight.
type WeightedList []WeightedRecipient

// IdentityList is paid in equal shares.
type IdentityList []string

func (w WeightedList) Len() int { return len(w) }
func (w WeightedList) recipients() {}

func (l IdentityList) Len() int { return len(l) }
func (l IdentityList) recipients() {}

// TotalWeight returns the sum of all weights in the list.
func (w WeightedList) TotalWeight() uint64 {
	var total uint64
	for _, r := range w {
		total += r.Weight
	}
	return total
}

// Payout is one recipient's share of a run.
type Payout struct {
	SubmissionID string `json:"id"`
	Recipient    string `json:"target"`
	Quantity     int64  `json:"qty"`
	WeightBasis  uint64 `json:"dataUploaded"`
	Weighted     bool   `json:"weighted"`
	Sent         bool   `json:"sent"`
}

// Submittable reports whether the payout should be handed to the submitter.
// Zero quantity payouts are kept for bookkeeping only.
func (p Payout) Submittable() bool {
	return p.Quantity != 0
}
