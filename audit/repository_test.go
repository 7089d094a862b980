// audit/repository_test.go
package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchResponse(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var rmap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &rmap))
	return rmap
}

func TestParseEnforcementHits(t *testing.T) {
	t.Run("well-formed response", func(t *testing.T) {
		rmap := searchResponse(t, `{
			"took": 3,
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "c-1", "_source": {"correlation_id": "c-1", "user_id": "alice", "tool_slug": "github", "action": "write", "decision": "deny", "reason": "denied by policy"}},
					{"_id": "c-2", "_source": {"correlation_id": "c-2", "user_id": "bob", "tool_slug": "gitlab", "action": "read", "decision": "allow", "reason": "allowed by policy", "cache_hit": true}}
				]
			}
		}`)

		results, err := parseEnforcementHits(rmap)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "c-1", results[0].CorrelationID)
		assert.Equal(t, "alice", results[0].UserID)
		assert.Equal(t, "deny", results[0].Decision)
		assert.True(t, results[1].CacheHit)
	})

	t.Run("empty hits list", func(t *testing.T) {
		rmap := searchResponse(t, `{"hits": {"hits": []}}`)

		results, err := parseEnforcementHits(rmap)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("missing hits object", func(t *testing.T) {
		rmap := searchResponse(t, `{"took": 3}`)

		_, err := parseEnforcementHits(rmap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing hits object")
	})

	t.Run("hits is not an object", func(t *testing.T) {
		rmap := searchResponse(t, `{"hits": "nope"}`)

		_, err := parseEnforcementHits(rmap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing hits object")
	})

	t.Run("hits list missing", func(t *testing.T) {
		rmap := searchResponse(t, `{"hits": {"total": {"value": 0}}}`)

		_, err := parseEnforcementHits(rmap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing hits list")
	})

	t.Run("malformed hit entry", func(t *testing.T) {
		rmap := searchResponse(t, `{"hits": {"hits": ["not-a-document"]}}`)

		_, err := parseEnforcementHits(rmap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed hit entry")
	})

	t.Run("source with wrong field types", func(t *testing.T) {
		rmap := searchResponse(t, `{"hits": {"hits": [{"_source": {"decision": 42}}]}}`)

		_, err := parseEnforcementHits(rmap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode enforcement result")
	})
}
