package media

import (
	"context"
	"sync"
)

// Mock implements Uploader for unit tests.
type Mock struct {
	mu sync.Mutex

	// Ref is returned by Upload. An empty Ref models a host that
	// accepted the request but produced no image.
	Ref string
	Err error

	UploadCalls int
	LastName    string
	LastSize    int
}

func (m *Mock) Upload(_ context.Context, filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls++
	m.LastName = filename
	m.LastSize = len(data)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Ref, nil
}

// Compile-time interface check
var _ Uploader = (*Mock)(nil)
