package store

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardriveapp/astatine/config"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	metricsNamespace = "astatine"
	diskSubsystem    = "ledger_disk"
)

var ErrDiskCritical = errors.New("ledger disk usage critical")

var (
	diskUsagePercentage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: diskSubsystem,
			Name:      "usage_percentage",
			Help:      "Current disk usage percentage for the ledger partition",
		},
		[]string{"path"},
	)

	diskTotalSpace = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: diskSubsystem,
			Name:      "total_bytes",
			Help:      "Total disk space in bytes for the ledger partition",
		},
		[]string{"path"},
	)

	diskFreeSpace = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: diskSubsystem,
			Name:      "free_bytes",
			Help:      "Free disk space in bytes for the ledger partition",
		},
		[]string{"path"},
	)
)

// DiskMonitor watches the partition holding the ledger and reports on errCh
// once usage crosses the terminate threshold.
type DiskMonitor struct {
	path                string
	noticePercentage    int
	warnPercentage      int
	terminatePercentage int
	logger              *zap.Logger
	errCh               chan<- error
	checkInterval       time.Duration
}

// NewDiskMonitor creates a monitor for the ledger directory using the
// thresholds in cfg. Critical usage is reported once per check on errCh,
// dropped when nobody is reading.
func NewDiskMonitor(
	cfg config.LedgerConfig,
	logger *zap.Logger,
	errCh chan<- error,
) *DiskMonitor {
	return &DiskMonitor{
		path:                cfg.Dir(),
		noticePercentage:    cfg.NoticePercentage,
		warnPercentage:      cfg.WarnPercentage,
		terminatePercentage: cfg.TerminatePercentage,
		logger:              logger.Named("disk_monitor"),
		errCh:               errCh,
		checkInterval:       time.Minute,
	}
}

func (d *DiskMonitor) WithCheckInterval(interval time.Duration) *DiskMonitor {
	d.checkInterval = interval
	return d
}

// getDiskStats returns usage percentage, total and free bytes of the
// partition containing the monitored path.
func (d *DiskMonitor) getDiskStats() (int, uint64, uint64, error) {
	absPath, err := filepath.Abs(d.path)
	if err != nil {
		return 0, 0, 0, errors.Wrap(err, "get disk stats")
	}

	if _, err := os.Stat(absPath); err != nil {
		return 0, 0, 0, errors.Wrapf(err, "get disk stats: %s", absPath)
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(absPath, &stat); err != nil {
		return 0, 0, 0, errors.Wrapf(err, "get disk stats: %s", absPath)
	}

	totalSpace := stat.Blocks * uint64(stat.Bsize)
	freeSpace := stat.Bfree * uint64(stat.Bsize)

	var usagePercentage int
	if totalSpace > 0 {
		usagePercentage = int(((totalSpace - freeSpace) * 100) / totalSpace)
	}

	return usagePercentage, totalSpace, freeSpace, nil
}

// Start checks once immediately, then on every interval until ctx is done.
func (d *DiskMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.checkInterval)
		defer ticker.Stop()

		d.checkDiskUsage()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.checkDiskUsage()
			}
		}
	}()
}

func (d *DiskMonitor) checkDiskUsage() {
	usagePercentage, totalSpace, freeSpace, err := d.getDiskStats()
	if err != nil {
		d.logger.Error(
			"failed to check disk usage",
			zap.Error(err),
			zap.String("path", d.path),
		)
		return
	}

	diskUsagePercentage.WithLabelValues(d.path).Set(float64(usagePercentage))
	diskTotalSpace.WithLabelValues(d.path).Set(float64(totalSpace))
	diskFreeSpace.WithLabelValues(d.path).Set(float64(freeSpace))

	fields := []zap.Field{
		zap.String("path", d.path),
		zap.Int("usage_percentage", usagePercentage),
		zap.Uint64("free_bytes", freeSpace),
		zap.Uint64("total_bytes", totalSpace),
	}

	switch {
	case usagePercentage >= d.terminatePercentage:
		d.logger.Error(
			"disk usage critical",
			append(fields, zap.Int("threshold", d.terminatePercentage))...,
		)
		if d.errCh == nil {
			return
		}
		select {
		case d.errCh <- errors.Wrapf(
			ErrDiskCritical,
			"%s at %d%%",
			d.path,
			usagePercentage,
		):
		default:
		}
	case usagePercentage >= d.warnPercentage:
		d.logger.Warn(
			"disk usage high",
			append(fields, zap.Int("threshold", d.warnPercentage))...,
		)
	case usagePercentage >= d.noticePercentage:
		d.logger.Info(
			"disk usage notice",
			append(fields, zap.Int("threshold", d.noticePercentage))...,
		)
	}
}
