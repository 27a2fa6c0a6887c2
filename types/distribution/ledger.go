package distribution

// RunRecord is an appended, immutable entry of the ledger describing a single
// completed distribution.
type RunRecord struct {
	Sequence       int      `json:"run"`
	ElapsedSeconds int64    `json:"time"`
	ElapsedTicks   int64    `json:"ticks"`
	AmountExpended int64    `json:"expend"`
	Complete       bool     `json:"complete"`
	Payouts        []Payout `json:"transactions"`
}

// Distributed returns the number of token units actually sent in the run.
func (r RunRecord) Distributed() int64 {
	var total int64
	for _, p := range r.Payouts {
		if p.Sent {
			total += p.Quantity
		}
	}
	return total
}

// LedgerState is the persisted state of the cannon. It is loaded once per
// invocation, modified as a value and saved back as a whole.
type LedgerState struct {
	// Milliseconds since epoch of the first invocation. Never changes.
	InitTimestamp    int64       `json:"time_init"`
	RemainingBalance int64       `json:"balance"`
	Runs             []RunRecord `json:"distributions"`
}

// LastRun returns the most recently appended run, if any.
func (s LedgerState) LastRun() (RunRecord, bool) {
	if len(s.Runs) == 0 {
		return RunRecord{}, false
	}
	return s.Runs[len(s.Runs)-1], true
}

// HasRunAtOrAfter reports whether a run was already recorded for the given
// tick bucket or a later one.
func (s LedgerState) HasRunAtOrAfter(ticks int64) bool {
	for _, r := range s.Runs {
		if r.ElapsedTicks >= ticks {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can modify the state without touching
// the loaded value.
func (s LedgerState) Clone() LedgerState {
	cpy := s
	cpy.Runs = make([]RunRecord, len(s.Runs))
	for i, r := range s.Runs {
		rc := r
		rc.Payouts = append([]Payout(nil), r.Payouts...)
		cpy.Runs[i] = rc
	}
	return cpy
}

// LedgerStore persists the ledger. Save must be atomic: a subsequent Load
// never observes a partially written state.
type LedgerStore interface {
	// Load returns the stored state, or an error satisfying
	// errors.Is(err, store.ErrNotFound) when nothing was saved yet.
	Load() (LedgerState, error)
	Save(state LedgerState) error
	Close() error
}
