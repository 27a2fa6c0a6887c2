package distribution

import "context"

// ContributionRecord is a single upload reported by the contribution feed.
type ContributionRecord struct {
	Cursor   string
	ID       string
	Identity string
	Size     uint64
	// Seconds since epoch of the containing block, nil when the record is not
	// yet part of a block.
	Timestamp *int64
}

type PageRequest struct {
	MinBlock int64
	PageSize int
	Cursor   string
}

type Page struct {
	HasNextPage bool
	Records     []ContributionRecord
}

// NextCursor returns the cursor of the last record in the page, or the
// fallback when the page is empty.
func (p *Page) NextCursor(fallback string) string {
	if len(p.Records) == 0 {
		return fallback
	}
	return p.Records[len(p.Records)-1].Cursor
}

// Feed is a cursor paginated source of contribution records.
type Feed interface {
	FetchPage(ctx context.Context, req PageRequest) (*Page, error)
}
