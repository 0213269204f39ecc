package server

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
)

// resultCache memoizes Compute by the JSON encoding of its parameters. The
// oldest entry is evicted once limit is reached; a limit of zero disables it.
type resultCache struct {
	mu      sync.Mutex
	limit   int
	order   []string
	entries map[string]costbenefit.Result
}

func newResultCache(limit int) *resultCache {
	return &resultCache{limit: limit, entries: make(map[string]costbenefit.Result)}
}

func cacheKey(params costbenefit.Parameters) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// compute returns the cached result for params, computing and storing it on a
// miss. The bool reports a cache hit.
func (c *resultCache) compute(params costbenefit.Parameters) (costbenefit.Result, bool, error) {
	if c.limit <= 0 {
		res, err := costbenefit.Compute(params)
		return res, false, err
	}

	key, err := cacheKey(params)
	if err != nil {
		res, err := costbenefit.Compute(params)
		return res, false, err
	}

	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return res, true, nil
	}
	c.mu.Unlock()

	res, err := costbenefit.Compute(params)
	if err != nil {
		return costbenefit.Result{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.limit {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
		c.entries[key] = res
	}
	return res, false, nil
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
