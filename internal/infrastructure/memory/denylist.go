package memory

import (
	"context"
	"sync"
	"time"
)

// Denylist is an in-process token revocation list, used when Redis is not
// configured. Entries are dropped lazily once their expiry passes.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

func (d *Denylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (d *Denylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expiry, ok := d.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(d.revoked, jti)
		return false, nil
	}
	return true, nil
}
