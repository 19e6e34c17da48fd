package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/impresso/impresso-text-embedder/storage"
)

// Object is one stored object in the mock store.
type Object struct {
	Data         []byte
	LastModified time.Time
}

// MockStore is an in-memory test double for storage.ObjectStore.
// It allows custom behavior injection via function fields; by default it
// serves objects from an in-memory map keyed by "bucket/key".
type MockStore struct {
	// ObjectExistsFunc is called by ObjectExists if set.
	ObjectExistsFunc func(ctx context.Context, bucket, key string) (bool, error)

	// PutObjectFunc is called by PutObject if set.
	PutObjectFunc func(ctx context.Context, bucket, key string, body io.Reader) error

	mu      sync.Mutex
	objects map[string]Object
	puts    int
}

// NewMockStore creates an empty mock store.
// Note: Returns concrete type to allow test assertions and seeding.
func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string]Object)}
}

// Seed stores an object directly, bypassing PutObject accounting.
func (m *MockStore) Seed(bucket, key string, data []byte, lastModified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = Object{Data: data, LastModified: lastModified}
}

// PutCount returns the number of successful PutObject calls.
func (m *MockStore) PutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Get returns the stored object and whether it exists.
func (m *MockStore) Get(bucket, key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[bucket+"/"+key]
	return obj, ok
}

// GetObject opens a stored object for reading.
func (m *MockStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, ok := m.Get(bucket, key)
	if !ok {
		return nil, fmt.Errorf("mock store: no such object s3://%s/%s", bucket, key)
	}
	return io.NopCloser(bytes.NewReader(obj.Data)), nil
}

// ObjectExists reports whether the object was seeded or uploaded.
func (m *MockStore) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	if m.ObjectExistsFunc != nil {
		return m.ObjectExistsFunc(ctx, bucket, key)
	}
	_, ok := m.Get(bucket, key)
	return ok, nil
}

// PutObject stores the body under bucket/key.
func (m *MockStore) PutObject(ctx context.Context, bucket, key string, body io.Reader) error {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, bucket, key, body)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = Object{Data: data, LastModified: time.Now().UTC()}
	m.puts++
	return nil
}

// ListObjects calls fn for every seeded object under prefix, in key order.
func (m *MockStore) ListObjects(ctx context.Context, bucket, prefix string, fn func(storage.ObjectInfo) error) error {
	m.mu.Lock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, bucket+"/"+prefix) {
			keys = append(keys, k)
		}
	}
	m.mu.Unlock()
	sort.Strings(keys)

	for _, k := range keys {
		obj, _ := m.Get(bucket, strings.TrimPrefix(k, bucket+"/"))
		info := storage.ObjectInfo{
			Key:          strings.TrimPrefix(k, bucket+"/"),
			Size:         int64(len(obj.Data)),
			LastModified: obj.LastModified,
		}
		if err := fn(info); err != nil {
			return err
		}
	}
	return nil
}
