package store

import (
	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("ledger not found")

// NewLedgerStore opens the ledger backend selected by the configuration.
func NewLedgerStore(
	cfg config.LedgerConfig,
	logger *zap.Logger,
) (distribution.LedgerStore, error) {
	switch cfg.Backend {
	case config.LedgerBackendFile:
		return NewFileLedger(cfg.Path, logger), nil
	case config.LedgerBackendPebble:
		db, err := NewPebbleDB(logger, cfg.Path)
		if err != nil {
			return nil, errors.Wrap(err, "new ledger store")
		}
		return NewPebbleLedger(db, logger), nil
	default:
		return nil, errors.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}
