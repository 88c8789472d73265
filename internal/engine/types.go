package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Mapping is one entry of the item mapping dataset.
type Mapping struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Examine  string `json:"examine,omitempty"`
	Members  bool   `json:"members,omitempty"`
	LowAlch  *int64 `json:"lowalch,omitempty"`
	HighAlch *int64 `json:"highalch,omitempty"`
	Limit    *int64 `json:"limit,omitempty"`
	Value    *int64 `json:"value,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// PriceEntry is the latest instant-buy (high) and instant-sell (low) price of an item.
// A nil price means no recent trade of that kind, not a price of zero.
type PriceEntry struct {
	High     *uint32 `json:"high"`
	HighTime *int64  `json:"highTime"`
	Low      *uint32 `json:"low"`
	LowTime  *int64  `json:"lowTime"`
}

// PriceTable maps item id to its latest prices.
type PriceTable map[uint32]PriceEntry

// DecodeMappings decodes the mapping dataset document.
func DecodeMappings(data []byte) ([]Mapping, error) {
	var mappings []Mapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("%w: mappings: %w", ErrDecodeFailed, err)
	}
	if mappings == nil {
		return nil, fmt.Errorf("%w: mappings: document is not an array", ErrDecodeFailed)
	}
	return mappings, nil
}

// latestDocument is the wire shape of the latest-prices endpoint.
// Item ids arrive as string object keys.
type latestDocument struct {
	Data map[string]PriceEntry `json:"data"`
}

// DecodePrices decodes the latest-prices document, parsing every string key into a
// numeric item id.
func DecodePrices(data []byte) (PriceTable, error) {
	var doc latestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: prices: %w", ErrDecodeFailed, err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("%w: prices: missing data object", ErrDecodeFailed)
	}

	table := make(PriceTable, len(doc.Data))
	for key, entry := range doc.Data {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: prices: item id %q: %w", ErrDecodeFailed, key, err)
		}
		table[uint32(id)] = entry
	}
	return table, nil
}

// DedupeMappings drops repeated ids, keeping the last-seen entry for each id.
// Survivors keep the relative order of their last occurrence. It returns the number
// of entries dropped.
func DedupeMappings(mappings []Mapping) ([]Mapping, int) {
	last := make(map[uint32]int, len(mappings))
	for i, m := range mappings {
		last[m.ID] = i
	}
	if len(last) == len(mappings) {
		return mappings, 0
	}

	out := make([]Mapping, 0, len(last))
	for i, m := range mappings {
		if last[m.ID] == i {
			out = append(out, m)
		}
	}
	return out, len(mappings) - len(out)
}
