package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/darakelian/osrsprice/internal/engine/cache"
	"github.com/darakelian/osrsprice/internal/logging"
)

// Fetcher retrieves the raw body of a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Dataset describes one cached remote document and how to decode it.
type Dataset[T any] struct {
	// Name is the cache record name.
	Name string

	// URL is the remote document location.
	URL string

	// Decode turns the raw document into a value.
	Decode func([]byte) (T, error)

	// Policy decides when the cached record is stale.
	Policy cache.Policy
}

// Loader ties a cache store to a fetcher.
type Loader struct {
	store   *cache.Store
	fetcher Fetcher
}

// NewLoader creates a loader over store and fetcher.
func NewLoader(store *cache.Store, fetcher Fetcher) (*Loader, error) {
	if store == nil {
		return nil, errors.New("loader requires a cache store")
	}
	if fetcher == nil {
		return nil, errors.New("loader requires a fetcher")
	}
	return &Loader{store: store, fetcher: fetcher}, nil
}

// Load returns the dataset's value, from the cache when the policy trusts it and from
// the network otherwise. A fetched document is cached only after it decodes, and the
// raw bytes are cached rather than a re-encoding of the value.
//
// Every error is a *DatasetError wrapping one of ErrFetchFailed, ErrDecodeFailed,
// cache.ErrCacheMissing, cache.ErrCacheUnreadable or cache.ErrCacheWriteFailed.
func Load[T any](ctx context.Context, l *Loader, ds Dataset[T], force bool) (T, error) {
	var zero T
	logger := logging.FromContext(ctx).With().
		Str("component", "loader").
		Str("dataset", ds.Name).
		Logger()

	state := cache.State{Exists: l.store.Exists(ds.Name), Force: force}
	if state.Exists && ds.Policy.NeedsAge() {
		age, err := l.store.Age(ds.Name)
		if err != nil {
			return zero, &DatasetError{Dataset: ds.Name, Err: err}
		}
		state.Age = age
	}

	if !ds.Policy.ShouldRefresh(state) {
		logger.Debug().
			Str("policy", ds.Policy.String()).
			Str("age", cache.FormatDuration(state.Age)).
			Msg("using cached dataset")
		return loadCached(l, ds)
	}

	logger.Debug().
		Str("policy", ds.Policy.String()).
		Bool("exists", state.Exists).
		Bool("force", force).
		Str("url", ds.URL).
		Msg("refreshing dataset")

	body, err := l.fetcher.Fetch(ctx, ds.URL)
	if err != nil {
		return zero, &DatasetError{Dataset: ds.Name, Err: fmt.Errorf("%w: %w", ErrFetchFailed, err)}
	}

	value, err := decode(ds, body)
	if err != nil {
		logger.Warn().Err(err).Msg("fetched document did not decode, keeping existing cache")
		return zero, &DatasetError{Dataset: ds.Name, Err: err}
	}

	if err := l.store.Write(ds.Name, body); err != nil {
		return zero, &DatasetError{Dataset: ds.Name, Err: err}
	}

	logger.Debug().Int("bytes", len(body)).Str("path", l.store.Path(ds.Name)).Msg("dataset cached")
	return value, nil
}

func loadCached[T any](l *Loader, ds Dataset[T]) (T, error) {
	var zero T
	body, err := l.store.Read(ds.Name)
	if err != nil {
		return zero, &DatasetError{Dataset: ds.Name, Err: err}
	}

	value, err := decode(ds, body)
	if err != nil {
		return zero, &DatasetError{
			Dataset: ds.Name,
			Err:     fmt.Errorf("cached %s is corrupt, force a refresh: %w", l.store.Path(ds.Name), err),
		}
	}
	return value, nil
}

// decode runs the dataset decoder, making sure any failure carries ErrDecodeFailed.
func decode[T any](ds Dataset[T], body []byte) (T, error) {
	value, err := ds.Decode(body)
	if err != nil && !errors.Is(err, ErrDecodeFailed) {
		err = fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return value, err
}
