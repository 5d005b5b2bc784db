package plaid

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
)

// Reader is the read side of a bank data provider
type Reader interface {
	GetAccounts(ctx context.Context, accessToken string) ([]models.Account, error)
	GetTransactions(ctx context.Context, accessToken string, start, end time.Time, count int) ([]models.Transaction, error)
}

// CachedReader keeps recent Reader responses in memory for ttl.
// Keys carry a per-token generation so Invalidate drops every entry for a token at once.
type CachedReader struct {
	next  Reader
	cache *ristretto.Cache
	ttl   time.Duration
	log   *logrus.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCachedReader wraps next with a ristretto cache holding up to maxEntries responses
func NewCachedReader(next Reader, ttl time.Duration, maxEntries int64, log *logrus.Logger) (*CachedReader, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &CachedReader{
		next:        next,
		cache:       cache,
		ttl:         ttl,
		log:         log,
		generations: make(map[string]uint64),
	}, nil
}

// GetAccounts implements Reader
func (c *CachedReader) GetAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	key := c.key(accessToken, "balances")
	if v, ok := c.cache.Get(key); ok {
		c.log.Debug("Accounts served from cache")
		return append([]models.Account(nil), v.([]models.Account)...), nil
	}

	accounts, err := c.next.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(key, accounts, 1, c.ttl)
	return append([]models.Account(nil), accounts...), nil
}

// GetTransactions implements Reader
func (c *CachedReader) GetTransactions(ctx context.Context, accessToken string, start, end time.Time, count int) ([]models.Transaction, error) {
	key := c.key(accessToken, fmt.Sprintf("transactions:%s:%s:%d",
		start.Format(models.DateLayout), end.Format(models.DateLayout), count))
	if v, ok := c.cache.Get(key); ok {
		c.log.Debug("Transactions served from cache")
		return append([]models.Transaction(nil), v.([]models.Transaction)...), nil
	}

	txs, err := c.next.GetTransactions(ctx, accessToken, start, end, count)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(key, txs, 1, c.ttl)
	return append([]models.Transaction(nil), txs...), nil
}

// Invalidate forgets every cached response for accessToken
func (c *CachedReader) Invalidate(accessToken string) {
	digest := tokenDigest(accessToken)
	c.mu.Lock()
	c.generations[digest]++
	c.mu.Unlock()
}

// Wait blocks until pending cache writes are applied
func (c *CachedReader) Wait() {
	c.cache.Wait()
}

// Close releases the cache
func (c *CachedReader) Close() {
	c.cache.Close()
}

func (c *CachedReader) key(accessToken, suffix string) string {
	digest := tokenDigest(accessToken)
	c.mu.Lock()
	gen := c.generations[digest]
	c.mu.Unlock()
	return fmt.Sprintf("%s:%d:%s", digest, gen, suffix)
}

// tokenDigest keeps raw access tokens out of cache keys
func tokenDigest(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return hex.EncodeToString(sum[:8])
}
