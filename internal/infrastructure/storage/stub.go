package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	catalogapp "github.com/anu-devcode/deploy-test-sub002/internal/application/catalog"
)

// StubObjectStorage is used when object storage is disabled. It fabricates
// URLs under BaseURL and remembers deletions so ObjectExists stays consistent.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.Mutex
	deleted map[string]bool
}

func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/stub"
	}
	return &StubObjectStorage{BaseURL: baseURL, deleted: make(map[string]bool)}
}

func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("upload", key, expiresIn)
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("download", key, expiresIn)
}

func (s *StubObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[key] = true
	return nil
}

// ObjectExists reports true for any key not deleted through this stub
func (s *StubObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.deleted[key], nil
}

func (s *StubObjectStorage) url(op, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + op + "/" + url.PathEscape(key) + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

var _ catalogapp.ImageStorage = (*StubObjectStorage)(nil)
