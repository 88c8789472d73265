// Package cache stores the raw JSON documents fetched from the prices API and decides
// when they are stale.
//
// Each dataset is one file in the cache directory (mappings.json, prices.json). The file's
// modification time is the only staleness signal; nothing is embedded in the document.
// Two refresh policies exist:
//   - PresenceOnly: trust the record forever once it exists (item mappings)
//   - TTLPolicy: refetch once the record is older than a configured TTL (latest prices)
//
// Records are only ever replaced after a successful fetch and decode, so a bad response
// never clobbers a good cache.
package cache
