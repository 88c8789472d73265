package engine

import (
	"errors"
	"fmt"
)

// Dataset load errors. Cache-side failures use the sentinels in the cache package.
var (
	ErrFetchFailed  = errors.New("fetch failed")
	ErrDecodeFailed = errors.New("decode failed")
)

// DatasetError names the dataset whose load failed.
type DatasetError struct {
	Dataset string
	Err     error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Dataset, e.Err)
}

func (e *DatasetError) Unwrap() error {
	return e.Err
}
