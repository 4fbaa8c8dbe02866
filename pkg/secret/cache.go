package secret

import (
	"sync"
)

// Cache write-through, read-through cache in front of the authoritative
// secret store. Safe for concurrent use; the store dependency is injected
// so callers can swap in test doubles.
type Cache struct {
	store  Store
	lock   sync.RWMutex
	buffer map[string]string
}

func NewCache(store Store) *Cache {
	return &Cache{
		store:  store,
		buffer: make(map[string]string),
	}
}

// Get return the secret value for name. With useCache the buffered value is
// returned when present; a miss always fetches from the authoritative store
// and updates the buffer.
func (c *Cache) Get(name string, useCache bool) (string, error) {
	if useCache {
		c.lock.RLock()
		value, ok := c.buffer[name]
		c.lock.RUnlock()
		if ok {
			return value, nil
		}
	}
	value, err := c.store.GetSecret(name)
	if err != nil {
		return "", err
	}
	// update buffer anyway
	c.lock.Lock()
	c.buffer[name] = value
	c.lock.Unlock()
	return value, nil
}

// Set write-through update. The authoritative write happens first so a
// store failure never leaves the buffer ahead of the store.
func (c *Cache) Set(name, value string) error {
	if err := c.store.SetSecret(name, value); err != nil {
		return err
	}
	c.lock.Lock()
	c.buffer[name] = value
	c.lock.Unlock()
	return nil
}

// FindNameByValue reverse lookup used to validate inbound subscription keys.
// A buffered hit is double-checked against the authoritative store: a
// mismatch means the secret rotated, so the buffer entry is refreshed and
// the lookup reports not found, forcing the caller to re-authenticate with
// the fresh value. With no buffered hit the whole authoritative listing is
// scanned, populating the buffer opportunistically.
func (c *Cache) FindNameByValue(value string) (string, bool, error) {
	c.lock.RLock()
	found := ""
	for name, buffered := range c.buffer {
		if buffered == value {
			found = name
			break
		}
	}
	c.lock.RUnlock()

	if found != "" {
		current, err := c.store.GetSecret(found)
		if err != nil {
			return "", false, err
		}
		if current == value {
			return found, true, nil
		}
		// the caller is using an old key
		c.lock.Lock()
		c.buffer[found] = current
		c.lock.Unlock()
		return "", false, nil
	}

	names, err := c.store.ListSecretNames()
	if err != nil {
		return "", false, err
	}
	for _, name := range names {
		current, err := c.store.GetSecret(name)
		if err != nil {
			return "", false, err
		}
		c.lock.Lock()
		c.buffer[name] = current
		c.lock.Unlock()
		if current == value {
			return name, true, nil
		}
	}
	return "", false, nil
}
