package domain

import "time"

// CacheEntry is the persisted snapshot of the last successful fetch.
type CacheEntry struct {
	Records         []StaffRecord
	FetchedAtMillis int64
}

// FetchedAt converts the stored timestamp to a time.Time.
func (e CacheEntry) FetchedAt() time.Time {
	return time.UnixMilli(e.FetchedAtMillis)
}

// IsFresh reports whether the entry is younger than interval at now.
func (e CacheEntry) IsFresh(now time.Time, interval time.Duration) bool {
	return now.UnixMilli()-e.FetchedAtMillis < interval.Milliseconds()
}
