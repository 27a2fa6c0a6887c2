package aggregator

import (
	"context"
	"sort"

	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/types/distribution"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrFeedLoop = errors.New("feed does not advance")

const seenCursorCacheSize = 4096

type Options struct {
	MinBlock int64
	// 0 is unbounded.
	MaxPages int
	// Keep paging past records older than the window instead of stopping.
	FullScan bool
	// Ignore records without a block instead of stopping.
	SkipPending     bool
	MinContribution uint64
}

func OptionsFromConfig(
	feed config.FeedConfig,
	aggregation config.AggregationConfig,
) Options {
	opts := Options{
		MinBlock:    feed.MinBlock,
		MaxPages:    feed.MaxPages,
		FullScan:    feed.FullScan,
		SkipPending: feed.PendingRecords == config.PendingSkip,
	}
	if aggregation.MinContribution != nil {
		opts.MinContribution = *aggregation.MinContribution
	}
	return opts
}

type Result struct {
	// Sorted by weight, heaviest first, below-minimum recipients removed.
	Recipients distribution.WeightedList
	// All in-window bytes, including those of dropped recipients.
	TotalBytes uint64
	Pages      int
	Records    int
	Dropped    int
}

// Aggregator folds the records of a feed into per-identity byte totals.
type Aggregator struct {
	feed   distribution.Feed
	opts   Options
	logger *zap.Logger
}

func NewAggregator(
	feed distribution.Feed,
	opts Options,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		feed:   feed,
		opts:   opts,
		logger: logger.Named("aggregator"),
	}
}

// Aggregate pages through the feed and sums the sizes of every record inside
// the window. Any feed error aborts the aggregation.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	window Window,
	pageSize int,
) (*Result, error) {
	result, err := a.aggregate(ctx, window, pageSize)
	if err != nil {
		aggregationsTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "aggregate")
	}

	aggregationsTotal.WithLabelValues("success").Inc()
	pagesConsumed.Observe(float64(result.Pages))
	windowBytes.Set(float64(result.TotalBytes))
	eligibleRecipients.Set(float64(len(result.Recipients)))

	a.logger.Info(
		"aggregation complete",
		zap.Time("window_start", window.Start),
		zap.Time("window_end", window.End),
		zap.Int("pages", result.Pages),
		zap.Int("records", result.Records),
		zap.Uint64("total_bytes", result.TotalBytes),
		zap.Int("recipients", len(result.Recipients)),
		zap.Int("dropped", result.Dropped),
	)
	return result, nil
}

func (a *Aggregator) aggregate(
	ctx context.Context,
	window Window,
	pageSize int,
) (*Result, error) {
	seen, err := lru.New[string, struct{}](seenCursorCacheSize)
	if err != nil {
		return nil, err
	}

	weights := map[string]uint64{}
	order := []string{}
	result := &Result{}
	cursor := ""

	for {
		if a.opts.MaxPages > 0 && result.Pages >= a.opts.MaxPages {
			return nil, errors.Wrapf(
				ErrFeedLoop,
				"page limit of %d reached",
				a.opts.MaxPages,
			)
		}

		page, err := a.feed.FetchPage(ctx, distribution.PageRequest{
			MinBlock: a.opts.MinBlock,
			PageSize: pageSize,
			Cursor:   cursor,
		})
		if err != nil {
			return nil, err
		}
		result.Pages++

		done := false
		for _, record := range page.Records {
			result.Records++

			if record.Timestamp == nil {
				if a.opts.SkipPending {
					continue
				}
				done = true
				break
			}

			ts := *record.Timestamp
			if ts < window.Start.Unix() {
				if a.opts.FullScan {
					continue
				}
				done = true
				break
			}
			if !window.contains(ts) || record.Size == 0 {
				continue
			}

			if _, ok := weights[record.Identity]; !ok {
				order = append(order, record.Identity)
			}
			weights[record.Identity] += record.Size
			result.TotalBytes += record.Size
		}

		if done || !page.HasNextPage {
			break
		}

		next := page.NextCursor(cursor)
		if next == cursor || seen.Contains(next) {
			return nil, errors.Wrapf(ErrFeedLoop, "cursor %q repeated", next)
		}
		seen.Add(next, struct{}{})
		cursor = next

		a.logger.Debug(
			"page consumed",
			zap.Int("page", result.Pages),
			zap.String("next_cursor", cursor),
		)
	}

	list := make(distribution.WeightedList, 0, len(order))
	for _, identity := range order {
		list = append(list, distribution.WeightedRecipient{
			Identity: identity,
			Weight:   weights[identity],
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Weight > list[j].Weight
	})

	result.Recipients = make(distribution.WeightedList, 0, len(list))
	for _, r := range list {
		if r.Weight < a.opts.MinContribution {
			result.Dropped++
			continue
		}
		result.Recipients = append(result.Recipients, r)
	}

	return result, nil
}
