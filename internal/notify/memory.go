package notify

import (
	"context"
	"sort"
	"sync"
)

// MemoryCenter is an in-process Center for environments without an OS
// notification service. It records pending requests and grants authorization
// when asked.
type MemoryCenter struct {
	mu      sync.Mutex
	pending map[string]Request
	status  AuthorizationStatus
}

func NewMemoryCenter() *MemoryCenter {
	return &MemoryCenter{
		pending: map[string]Request{},
		status:  AuthorizationNotDetermined,
	}
}

func (c *MemoryCenter) Add(_ context.Context, req Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[req.ID] = req
	return nil
}

func (c *MemoryCenter) Remove(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.pending, id)
	}
}

func (c *MemoryCenter) RemoveAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = map[string]Request{}
}

func (c *MemoryCenter) AuthorizationStatus(_ context.Context) (AuthorizationStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, nil
}

func (c *MemoryCenter) RequestAuthorization(_ context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = AuthorizationAuthorized
	return true, nil
}

// SetStatus overrides the reported permission state; used by tests and by
// deployments that decide authorization elsewhere.
func (c *MemoryCenter) SetStatus(status AuthorizationStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// Pending lists the registered requests ordered by fire time.
func (c *MemoryCenter) Pending() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, 0, len(c.pending))
	for _, req := range c.pending {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}
