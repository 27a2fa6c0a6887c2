package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const tempSuffix = "_temp"

// FileLedger keeps the ledger as an indented JSON document. Saves go through
// a synced temporary file that is renamed over the ledger, so readers only
// ever see a complete document.
type FileLedger struct {
	path   string
	logger *zap.Logger
}

var _ distribution.LedgerStore = (*FileLedger)(nil)

func NewFileLedger(path string, logger *zap.Logger) *FileLedger {
	return &FileLedger{
		path:   path,
		logger: logger.Named("file_ledger"),
	}
}

func (f *FileLedger) Load() (distribution.LedgerState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return distribution.LedgerState{}, ErrNotFound
	}
	if err != nil {
		return distribution.LedgerState{}, errors.Wrap(err, "load")
	}

	var state distribution.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return distribution.LedgerState{}, errors.Wrap(err, "load")
	}
	if state.Runs == nil {
		state.Runs = []distribution.RunRecord{}
	}

	return state, nil
}

func (f *FileLedger) Save(state distribution.LedgerState) error {
	if state.Runs == nil {
		state.Runs = []distribution.RunRecord{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "save")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "save")
	}

	tmp := f.path + tempSuffix
	if err := writeSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "save")
	}

	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "save")
	}

	// Persist the rename itself.
	if d, err := os.Open(dir); err == nil {
		if err := d.Sync(); err != nil {
			f.logger.Debug("could not sync ledger directory", zap.Error(err))
		}
		d.Close()
	}

	f.logger.Debug(
		"ledger saved",
		zap.String("path", f.path),
		zap.Int("runs", len(state.Runs)),
	)
	return nil
}

func (f *FileLedger) Close() error {
	return nil
}

func writeSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
