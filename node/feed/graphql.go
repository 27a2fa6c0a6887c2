package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 16 << 20

// GraphQLFeed pages through upload transactions of an Arweave GraphQL
// gateway, filtered by the App-Name tag.
type GraphQLFeed struct {
	logger   *zap.Logger
	client   *http.Client
	strategy *EndpointStrategy
	appNames []string
	limiter  *rate.Limiter
}

var _ distribution.Feed = (*GraphQLFeed)(nil)

func NewGraphQLFeed(cfg config.FeedConfig, logger *zap.Logger) *GraphQLFeed {
	f := &GraphQLFeed{
		logger:   logger.Named("graphql_feed"),
		client:   &http.Client{Timeout: cfg.Timeout},
		strategy: NewEndpointStrategy(cfg.Endpoints(), logger),
		appNames: append([]string{}, cfg.AppNames...),
	}
	if cfg.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return f
}

func (f *GraphQLFeed) FetchPage(
	ctx context.Context,
	req distribution.PageRequest,
) (*distribution.Page, error) {
	body, err := json.Marshal(map[string]string{"query": f.buildQuery(req)})
	if err != nil {
		return nil, errors.Wrap(err, "fetch page")
	}

	var page *distribution.Page
	err = f.strategy.Do(ctx, func(ctx context.Context, endpoint string) error {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		p, err := f.post(ctx, endpoint, body)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch page")
	}

	recordsReceivedTotal.Add(float64(len(page.Records)))
	f.logger.Debug(
		"fetched page",
		zap.String("cursor", req.Cursor),
		zap.Int("records", len(page.Records)),
		zap.Bool("has_next_page", page.HasNextPage),
	)
	return page, nil
}

func (f *GraphQLFeed) buildQuery(req distribution.PageRequest) string {
	names := make([]string, 0, len(f.appNames))
	for _, name := range f.appNames {
		names = append(names, strconv.Quote(name))
	}

	return fmt.Sprintf(`query {
  transactions(
    tags: { name: "App-Name", values: [%s] }
    block: { min: %d }
    first: %d
    after: %s
  ) {
    pageInfo {
      hasNextPage
    }
    edges {
      cursor
      node {
        id
        owner {
          address
        }
        data {
          size
        }
        block {
          height
          timestamp
        }
      }
    }
  }
}`,
		strings.Join(names, ", "),
		req.MinBlock,
		req.PageSize,
		strconv.Quote(req.Cursor),
	)
}

func (f *GraphQLFeed) post(
	ctx context.Context,
	endpoint string,
	body []byte,
) (*distribution.Page, error) {
	start := time.Now()
	defer func() {
		pageRequestDuration.WithLabelValues(endpoint).Observe(
			time.Since(start).Seconds(),
		)
	}()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, errors.Wrap(err, "post")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		pageRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, errors.Wrap(err, "post")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		pageRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, errors.Wrap(err, "post")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pageRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	page, err := parsePage(data)
	if err != nil {
		status := "error"
		if errors.Is(err, ErrMalformedResponse) {
			status = "malformed"
		}
		pageRequestsTotal.WithLabelValues(endpoint, status).Inc()
		return nil, err
	}

	pageRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return page, nil
}

func parsePage(data []byte) (*distribution.Page, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrMalformedResponse, "invalid json")
	}
	root := gjson.ParseBytes(data)

	if errs := root.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return nil, errors.Errorf(
			"graphql error: %s",
			errs.Array()[0].Get("message").String(),
		)
	}

	transactions := root.Get("data.transactions")
	if !transactions.IsObject() {
		return nil, errors.Wrap(ErrMalformedResponse, "missing data.transactions")
	}

	hasNextPage := transactions.Get("pageInfo.hasNextPage")
	if hasNextPage.Type != gjson.True && hasNextPage.Type != gjson.False {
		return nil, errors.Wrap(ErrMalformedResponse, "missing pageInfo.hasNextPage")
	}

	edges := transactions.Get("edges")
	if !edges.IsArray() {
		return nil, errors.Wrap(ErrMalformedResponse, "missing edges")
	}

	page := &distribution.Page{
		HasNextPage: hasNextPage.Bool(),
		Records:     make([]distribution.ContributionRecord, 0, len(edges.Array())),
	}
	for i, edge := range edges.Array() {
		record, err := parseRecord(edge)
		if err != nil {
			return nil, errors.Wrapf(err, "edge %d", i)
		}
		page.Records = append(page.Records, record)
	}

	return page, nil
}

func parseRecord(edge gjson.Result) (distribution.ContributionRecord, error) {
	node := edge.Get("node")

	owner := node.Get("owner.address")
	if owner.Type != gjson.String {
		return distribution.ContributionRecord{},
			errors.Wrap(ErrMalformedResponse, "missing owner.address")
	}

	// Gateways report the size as a string.
	size := node.Get("data.size")
	if !size.Exists() || size.Type == gjson.Null {
		return distribution.ContributionRecord{},
			errors.Wrap(ErrMalformedResponse, "missing data.size")
	}
	parsed, err := strconv.ParseUint(size.String(), 10, 64)
	if err != nil {
		return distribution.ContributionRecord{},
			errors.Wrap(ErrMalformedResponse, "invalid data.size")
	}

	record := distribution.ContributionRecord{
		Cursor:   edge.Get("cursor").String(),
		ID:       node.Get("id").String(),
		Identity: owner.String(),
		Size:     parsed,
	}

	block := node.Get("block")
	if block.Exists() && block.Type != gjson.Null {
		timestamp := block.Get("timestamp")
		if timestamp.Type != gjson.Number {
			return distribution.ContributionRecord{},
				errors.Wrap(ErrMalformedResponse, "missing block.timestamp")
		}
		ts := timestamp.Int()
		record.Timestamp = &ts
	}

	return record, nil
}
