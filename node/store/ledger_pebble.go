package store

import (
	"encoding/json"
	"slices"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	LEDGER       = 0x01
	LEDGER_STATE = 0x00
)

func ledgerStateKey() []byte {
	return []byte{LEDGER, LEDGER_STATE}
}

// PebbleLedger stores the whole ledger as a single value, which makes every
// save a single synced write.
type PebbleLedger struct {
	db     KVDB
	logger *zap.Logger
}

var _ distribution.LedgerStore = (*PebbleLedger)(nil)

func NewPebbleLedger(db KVDB, logger *zap.Logger) *PebbleLedger {
	return &PebbleLedger{
		db:     db,
		logger: logger.Named("pebble_ledger"),
	}
}

func (p *PebbleLedger) Load() (distribution.LedgerState, error) {
	data, closer, err := p.db.Get(ledgerStateKey())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return distribution.LedgerState{}, ErrNotFound
		}
		return distribution.LedgerState{}, errors.Wrap(err, "load")
	}

	copied := slices.Clone(data)
	closer.Close()

	var state distribution.LedgerState
	if err := json.Unmarshal(copied, &state); err != nil {
		return distribution.LedgerState{}, errors.Wrap(err, "load")
	}
	if state.Runs == nil {
		state.Runs = []distribution.RunRecord{}
	}

	return state, nil
}

func (p *PebbleLedger) Save(state distribution.LedgerState) error {
	if state.Runs == nil {
		state.Runs = []distribution.RunRecord{}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "save")
	}

	if err := p.db.Set(ledgerStateKey(), data); err != nil {
		return errors.Wrap(err, "save")
	}

	p.logger.Debug("ledger saved", zap.Int("runs", len(state.Runs)))
	return nil
}

func (p *PebbleLedger) Close() error {
	return p.db.Close()
}
