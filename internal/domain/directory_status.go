package domain

import "time"

// LoadOrigin identifies where a load cycle's records came from.
type LoadOrigin string

const (
	LoadOriginCache  LoadOrigin = "cache"
	LoadOriginSource LoadOrigin = "source"
	LoadOriginMock   LoadOrigin = "mock"
)

// DirectoryStatus reports the loading and error state consumed by the UI.
type DirectoryStatus struct {
	IsLoading    bool
	ErrorMessage *string
	LastLoadedAt *time.Time
	LastOrigin   LoadOrigin
	RecordCount  int
}
