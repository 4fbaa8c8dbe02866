package secret

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingStore fake authoritative store with call counters
type countingStore struct {
	values   map[string]string
	getCalls int
	failSet  bool
}

func newCountingStore() *countingStore {
	return &countingStore{values: make(map[string]string)}
}

func (s *countingStore) GetSecret(name string) (string, error) {
	s.getCalls++
	value, ok := s.values[name]
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

func (s *countingStore) SetSecret(name, value string) error {
	if s.failSet {
		return errors.New("store unavailable")
	}
	s.values[name] = value
	return nil
}

func (s *countingStore) ListSecretNames() ([]string, error) {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	return names, nil
}

func TestGetCachesValue(t *testing.T) {
	store := newCountingStore()
	store.values["k1"] = "v1"
	cache := NewCache(store)

	value, err := cache.Get("k1", true)
	assert.Nil(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, 1, store.getCalls)

	// cached, no store round-trip
	value, err = cache.Get("k1", true)
	assert.Nil(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, 1, store.getCalls)

	// bypassing the cache always refetches
	_, err = cache.Get("k1", false)
	assert.Nil(t, err)
	assert.Equal(t, 2, store.getCalls)
}

func TestGetMissing(t *testing.T) {
	cache := NewCache(newCountingStore())
	_, err := cache.Get("nope", true)
	assert.True(t, errors.Is(err, ErrSecretNotFound))
}

func TestSetWriteThrough(t *testing.T) {
	store := newCountingStore()
	cache := NewCache(store)

	assert.Nil(t, cache.Set("k1", "v1"))
	assert.Equal(t, "v1", store.values["k1"])
	value, err := cache.Get("k1", true)
	assert.Nil(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, 0, store.getCalls)
}

func TestSetStoreFailureLeavesCacheBehind(t *testing.T) {
	store := newCountingStore()
	store.values["k1"] = "v1"
	cache := NewCache(store)
	_, _ = cache.Get("k1", true)

	store.failSet = true
	assert.NotNil(t, cache.Set("k1", "v2"))

	// the buffer must still hold the authoritative value
	value, err := cache.Get("k1", true)
	assert.Nil(t, err)
	assert.Equal(t, "v1", value)
}

func TestFindNameByValueColdScan(t *testing.T) {
	store := newCountingStore()
	store.values["k1"] = "v1"
	store.values["k2"] = "v2"
	cache := NewCache(store)

	name, found, err := cache.FindNameByValue("v2")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "k2", name)

	// the scan populated the buffer opportunistically
	calls := store.getCalls
	_, err = cache.Get("k2", true)
	assert.Nil(t, err)
	assert.Equal(t, calls, store.getCalls)
}

func TestFindNameByValueNoMatch(t *testing.T) {
	store := newCountingStore()
	store.values["k1"] = "v1"
	cache := NewCache(store)

	_, found, err := cache.FindNameByValue("unknown")
	assert.Nil(t, err)
	assert.False(t, found)
}

func TestFindNameByValueRotation(t *testing.T) {
	store := newCountingStore()
	store.values["k1"] = "v1"
	cache := NewCache(store)
	_, _ = cache.Get("k1", true)

	// rotate behind the cache's back
	store.values["k1"] = "v2"

	name, found, err := cache.FindNameByValue("v1")
	assert.Nil(t, err)
	assert.False(t, found)
	assert.Equal(t, "", name)

	// the buffer now holds the rotated value
	value, err := cache.Get("k1", true)
	assert.Nil(t, err)
	assert.Equal(t, "v2", value)

	// the fresh value authenticates
	name, found, err = cache.FindNameByValue("v2")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "k1", name)
}
