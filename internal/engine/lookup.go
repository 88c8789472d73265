package engine

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/darakelian/osrsprice/internal/engine/cache"
	"github.com/darakelian/osrsprice/internal/logging"
)

// Cache record names.
const (
	MappingsDataset = "mappings"
	PricesDataset   = "prices"
)

// Endpoints holds the remote document URLs.
type Endpoints struct {
	MappingURL string
	LatestURL  string
}

// LookupRequest is one price lookup.
type LookupRequest struct {
	// Query is matched case-insensitively against item names.
	Query string

	// RefreshMappings ignores any cached mapping dataset.
	RefreshMappings bool

	// RefreshPrices ignores any cached price dataset.
	RefreshPrices bool
}

// Result is a matched item joined with its prices.
type Result struct {
	Item  Mapping    `json:"item"`
	Price PriceEntry `json:"price"`
}

// Service answers price lookups from the two cached datasets.
type Service struct {
	loader   *Loader
	mappings Dataset[[]Mapping]
	prices   Dataset[PriceTable]
}

// NewService creates a lookup service. priceTTL bounds the age of cached prices;
// cached mappings are trusted until a refresh is forced.
func NewService(loader *Loader, endpoints Endpoints, priceTTL time.Duration) (*Service, error) {
	if loader == nil {
		return nil, errors.New("service requires a loader")
	}
	if endpoints.MappingURL == "" || endpoints.LatestURL == "" {
		return nil, errors.New("service requires mapping and latest price URLs")
	}
	if priceTTL < 0 {
		return nil, cache.ErrInvalidTTL
	}

	return &Service{
		loader: loader,
		mappings: Dataset[[]Mapping]{
			Name:   MappingsDataset,
			URL:    endpoints.MappingURL,
			Decode: DecodeMappings,
			Policy: cache.PresenceOnly{},
		},
		prices: Dataset[PriceTable]{
			Name:   PricesDataset,
			URL:    endpoints.LatestURL,
			Decode: DecodePrices,
			Policy: cache.NewTTLPolicy(priceTTL),
		},
	}, nil
}

// Lookup loads both datasets concurrently and returns the priced matches for the
// query in mapping order. Matches without a price entry are left out. Any dataset
// failure aborts the lookup with no partial results.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) ([]Result, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "Lookup").
		Logger()

	var (
		mappings []Mapping
		prices   PriceTable
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mappings, err = Load(gCtx, s.loader, s.mappings, req.RefreshMappings)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = Load(gCtx, s.loader, s.prices, req.RefreshPrices)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mappings, dropped := DedupeMappings(mappings)
	if dropped > 0 {
		logger.Debug().Int("dropped", dropped).Msg("duplicate item ids in mappings, kept last-seen entries")
	}

	matches := FindMatches(req.Query, mappings)
	results := make([]Result, 0, len(matches))
	unpriced := 0
	for _, m := range matches {
		price, ok := prices[m.ID]
		if !ok {
			unpriced++
			continue
		}
		results = append(results, Result{Item: m, Price: price})
	}

	logger.Debug().
		Str("query", req.Query).
		Int("mappings", len(mappings)).
		Int("prices", len(prices)).
		Int("matches", len(matches)).
		Int("unpriced", unpriced).
		Msg("lookup complete")

	return results, nil
}
