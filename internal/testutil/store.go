// Package testutil provides test doubles shared across package tests.
package testutil

import (
	"context"
	"strings"
	"sync"
)

// PutCall records one upload.
type PutCall struct {
	Key         string
	Body        string
	ContentType string
}

// MemoryStore is an in-memory storage.ObjectStore.
type MemoryStore struct {
	Bucket string
	// FailOn makes Put return the error for any key containing the map key.
	FailOn map[string]error

	mu    sync.Mutex
	calls []PutCall
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{Bucket: bucket, FailOn: map[string]error{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	for substr, err := range m.FailOn {
		if strings.Contains(key, substr) {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, PutCall{Key: key, Body: string(body), ContentType: contentType})
	return nil
}

func (m *MemoryStore) URI(key string) string {
	return "s3://" + m.Bucket + "/" + key
}

// Calls returns the successful uploads in order.
func (m *MemoryStore) Calls() []PutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PutCall(nil), m.calls...)
}

// Object returns the last body written to key.
func (m *MemoryStore) Object(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Key == key {
			return m.calls[i].Body, true
		}
	}
	return "", false
}
