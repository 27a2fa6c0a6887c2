package store

import (
	"io"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// KVDB is the subset of pebble used by the ledger.
type KVDB interface {
	Get(key []byte) ([]byte, io.Closer, error)
	Set(key, value []byte) error
	Close() error
}

type PebbleDB struct {
	db *pebble.DB
}

// NewPebbleDB opens (or creates) the pebble store at path. Pebble holds a
// lock on the directory, a second process opening the same path fails.
func NewPebbleDB(logger *zap.Logger, path string) (*PebbleDB, error) {
	if _, err := os.Stat(path); err == nil {
		logger.Info("store found", zap.String("path", path))
	} else if os.IsNotExist(err) {
		logger.Warn("store not found, creating", zap.String("path", path))
	} else {
		return nil, errors.Wrap(err, "new pebble db")
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "new pebble db")
	}

	return &PebbleDB{db}, nil
}

func (p *PebbleDB) Get(key []byte) ([]byte, io.Closer, error) {
	return p.db.Get(key)
}

func (p *PebbleDB) Set(key, value []byte) error {
	return p.db.Set(key, value, &pebble.WriteOptions{Sync: true})
}

func (p *PebbleDB) Close() error {
	return p.db.Close()
}

var _ KVDB = (*PebbleDB)(nil)
