// service/policy_service_test.go
package service

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/toolgate/api/logging"
	"github.com/toolgate/api/model"
	"github.com/toolgate/api/pdp/engine"
	pdp_model "github.com/toolgate/api/pdp/model"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "toolgate-test-logs")
	if err != nil {
		panic(err)
	}
	logger.InitLogger(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// globCache matches delete patterns the way Redis matches SCAN patterns, so
// the invalidation patterns the service issues are exercised against the key
// formats the engine actually writes.
type globCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newGlobCache() *globCache {
	return &globCache{data: make(map[string]string)}
}

func (c *globCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *globCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *globCache) DeleteByPattern(ctx context.Context, pattern string) error {
	g, err := glob.Compile(pattern)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if g.Match(key) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *globCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys
}

type countingPolicyStore struct {
	policies []*model.Policy
	calls    atomic.Int32
}

func (s *countingPolicyStore) GetPoliciesForEvaluation(ctx context.Context, toolSlug, action, resourceType string) ([]*model.Policy, error) {
	s.calls.Add(1)
	return s.policies, nil
}

func allowWritePolicy(id string) *model.Policy {
	return &model.Policy{
		PolicyID: id,
		Name:     "policy " + id,
		Type:     model.PolicyTypeAccessControl,
		Priority: 400,
		Enabled:  true,
		Rules: []model.Rule{{
			RuleID:  id + "-r1",
			Name:    "allow writes",
			Enabled: true,
			Action:  model.ActionList{model.ActionAllow, "write"},
		}},
	}
}

func enforcementRequest(sub, tool string) *pdp_model.EnforcementRequest {
	return &pdp_model.EnforcementRequest{
		User:         pdp_model.UserIdentity{Sub: sub, Email: sub + "@example.com"},
		ToolSlug:     tool,
		Action:       "write",
		ResourceType: "repository",
		ResourceName: "payments-service",
	}
}

// A policy write must force the next enforcement for that tool back to the
// store: the service's invalidation patterns have to sweep both the decision
// keys and the policy-set keys the engine wrote.
func TestInvalidateCaches_ForcesFreshEvaluationForTool(t *testing.T) {
	ctx := context.Background()
	cache := newGlobCache()
	store := &countingPolicyStore{policies: []*model.Policy{allowWritePolicy("p1")}}
	eng := engine.NewDecisionEngine(store, nil, cache, nil, engine.DefaultConfig())
	svc := &PolicyService{cacheService: cache}

	decision := eng.Enforce(ctx, enforcementRequest("alice", "github"))
	require.Equal(t, pdp_model.DecisionAllow, decision.Decision)
	require.Equal(t, int32(1), store.calls.Load())
	require.NotEmpty(t, cache.keys())

	// Warm cache absorbs the repeat call.
	eng.Enforce(ctx, enforcementRequest("alice", "github"))
	require.Equal(t, int32(1), store.calls.Load())

	toolID := "github"
	svc.invalidateCaches(ctx, &toolID)
	assert.Empty(t, cache.keys())

	eng.Enforce(ctx, enforcementRequest("alice", "github"))
	assert.Equal(t, int32(2), store.calls.Load())
}

func TestInvalidateCaches_ScopedWriteLeavesOtherToolsCached(t *testing.T) {
	ctx := context.Background()
	cache := newGlobCache()
	store := &countingPolicyStore{policies: []*model.Policy{allowWritePolicy("p1")}}
	eng := engine.NewDecisionEngine(store, nil, cache, nil, engine.DefaultConfig())
	svc := &PolicyService{cacheService: cache}

	eng.Enforce(ctx, enforcementRequest("alice", "github"))
	eng.Enforce(ctx, enforcementRequest("alice", "gitlab"))
	require.Equal(t, int32(2), store.calls.Load())

	toolID := "github"
	svc.invalidateCaches(ctx, &toolID)

	// gitlab's entries survive a github-scoped write.
	eng.Enforce(ctx, enforcementRequest("alice", "gitlab"))
	assert.Equal(t, int32(2), store.calls.Load())

	eng.Enforce(ctx, enforcementRequest("alice", "github"))
	assert.Equal(t, int32(3), store.calls.Load())
}

func TestInvalidateCaches_ToolAgnosticWriteFlushesEverything(t *testing.T) {
	ctx := context.Background()
	cache := newGlobCache()
	store := &countingPolicyStore{policies: []*model.Policy{allowWritePolicy("p1")}}
	eng := engine.NewDecisionEngine(store, nil, cache, nil, engine.DefaultConfig())
	svc := &PolicyService{cacheService: cache}

	eng.Enforce(ctx, enforcementRequest("alice", "github"))
	eng.Enforce(ctx, enforcementRequest("bob", "gitlab"))
	require.Equal(t, int32(2), store.calls.Load())
	require.NotEmpty(t, cache.keys())

	svc.invalidateCaches(ctx, nil)
	assert.Empty(t, cache.keys())

	eng.Enforce(ctx, enforcementRequest("alice", "github"))
	eng.Enforce(ctx, enforcementRequest("bob", "gitlab"))
	assert.Equal(t, int32(4), store.calls.Load())
}
