// Package prefs provides the key-value string store that backs the
// persisted search history and favorites.
package prefs

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Keys owned by the search dialog. History and favorites never write each other's key.
const (
	KeyHistory   = "history"
	KeyFavorites = "favorites"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown prefs backend")

// Store is a process-wide key-value string store.
// A missing key reads as the empty string.
type Store interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// Options selects and configures a backend
type Options struct {
	Backend   string
	Path      string // file backend
	RedisURL  string // redis backend
	Namespace string // redis key prefix
}

// Open creates the store described by opts
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStoreFromURL(opts.RedisURL, opts.Namespace)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// MemoryStore keeps values in a map; nothing survives the process
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemoryStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
