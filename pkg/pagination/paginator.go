package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/randori-export/pkg/client"
	"github.com/Sternrassler/randori-export/pkg/record"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	randoriPagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randori_pages_fetched_total",
		Help: "Total non-empty pages fetched by endpoint",
	}, []string{"endpoint"})

	randoriRecordsFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randori_records_fetched_total",
		Help: "Total records fetched by endpoint",
	}, []string{"endpoint"})
)

const (
	// DefaultPageSize matches the page size the platform documentation uses.
	DefaultPageSize = 10

	// MaxPageSize is the largest limit the platform accepts.
	MaxPageSize = 2000
)

// Config holds paginator configuration.
type Config struct {
	// PageSize is the limit sent with every page request.
	PageSize int
}

// DefaultConfig returns the default paginator configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
	}
}

// PageFetcher fetches a single list response. *client.Client implements it.
type PageFetcher interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*client.Page, error)
}

// Params are the query-string parameters of one endpoint's requests.
type Params struct {
	Query  string
	Sort   string
	Offset int
	Limit  int
}

// NewParams returns parameters positioned at the start of a result set.
func NewParams(encodedQuery, sort string) Params {
	return Params{
		Query: encodedQuery,
		Sort:  sort,
	}
}

// Values renders the parameters as q, offset, limit and sort.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	v.Set("offset", strconv.Itoa(p.Offset))
	v.Set("limit", strconv.Itoa(p.Limit))
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	return v
}

// Paginator fetches every record of an endpoint, one page at a time.
type Paginator struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// New creates a paginator. Page sizes outside 1..MaxPageSize are corrected.
func New(fetcher PageFetcher, config Config) *Paginator {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.PageSize > MaxPageSize {
		config.PageSize = MaxPageSize
	}

	return &Paginator{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "paginator").Logger(),
	}
}

// FetchAll returns every record of endpoint in server order.
//
// params is copied; only its Query and Sort are used. An endpoint with no
// matching records yields an empty, non-nil slice after a single request.
func (p *Paginator) FetchAll(ctx context.Context, endpoint string, params Params) ([]record.Record, error) {
	start := time.Now()
	logger := p.logger.With().Str("endpoint", endpoint).Logger()

	initial := params
	initial.Offset = 0
	initial.Limit = 0

	first, err := p.fetcher.Get(ctx, endpoint, initial.Values())
	if err != nil {
		return nil, fmt.Errorf("initial request: %w", err)
	}
	if err := first.Require(client.FieldTotal, client.FieldData); err != nil {
		return nil, fmt.Errorf("initial request: %w", err)
	}

	// total is never refreshed from later pages
	total := first.Total
	if total < 0 {
		return nil, fmt.Errorf("initial request: %w: negative total %d", client.ErrMalformedResponse, total)
	}
	logger.Info().
		Int("offset", first.Offset).
		Int("total", total).
		Msg("Learned result size")

	if total == 0 {
		logger.Info().Msg("No records for entity, skipping")
		return []record.Record{}, nil
	}

	all := make([]record.Record, 0, min(total, 10*MaxPageSize))
	offset := 0
	pages := 0

	for offset <= total {
		req := params
		req.Offset = offset
		req.Limit = p.config.PageSize

		page, err := p.fetcher.Get(ctx, endpoint, req.Values())
		if err != nil {
			return nil, fmt.Errorf("page at offset %d: %w", offset, err)
		}
		if err := page.Require(client.FieldOffset, client.FieldCount, client.FieldData); err != nil {
			return nil, fmt.Errorf("page at offset %d: %w", offset, err)
		}

		logger.Debug().
			Int("offset", page.Offset).
			Int("count", page.Count).
			Msg("Page received")

		if page.Count == 0 {
			break
		}
		if page.Count < 0 {
			return nil, fmt.Errorf("page at offset %d: %w: negative count %d",
				offset, client.ErrMalformedResponse, page.Count)
		}

		records, err := record.DecodeAll(page.Data)
		if err != nil {
			return nil, fmt.Errorf("page at offset %d: %w: %v", offset, client.ErrMalformedResponse, err)
		}
		all = append(all, records...)

		randoriPagesFetchedTotal.WithLabelValues(endpoint).Inc()
		randoriRecordsFetchedTotal.WithLabelValues(endpoint).Add(float64(len(records)))

		offset += page.Count
		pages++

		// Progress logging every 50 pages
		if pages%50 == 0 {
			logger.Info().
				Int("fetched", len(all)).
				Int("total", total).
				Float64("progress_pct", float64(len(all))/float64(total)*100).
				Msg("Fetch progress")
		}
	}

	if len(all) == 0 {
		logger.Warn().
			Int("total", total).
			Msg("Server reported records but returned none, skipping")
	}

	logger.Info().
		Int("records", len(all)).
		Int("pages", pages).
		Int("total", total).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}
