// model/policy_test.go
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionList_StringOrArray(t *testing.T) {
	var rule Rule
	require.NoError(t, json.Unmarshal([]byte(`{"action":"deny"}`), &rule))
	assert.Equal(t, ActionList{"deny"}, rule.Action)

	require.NoError(t, json.Unmarshal([]byte(`{"action":["allow","write","merge"]}`), &rule))
	assert.Equal(t, ActionList{"allow", "write", "merge"}, rule.Action)

	assert.Error(t, json.Unmarshal([]byte(`{"action":42}`), &rule))
}

func TestActionList_DecisionIsFirstElement(t *testing.T) {
	assert.Equal(t, "allow", ActionList{"allow", "write"}.Decision())
	assert.Equal(t, "deny", ActionList{"deny"}.Decision())
	assert.Equal(t, "", ActionList{}.Decision())
}

func TestActionList_MatchesAction(t *testing.T) {
	list := ActionList{"deny", "write", "merge"}
	assert.True(t, list.MatchesAction("write"))
	assert.True(t, list.MatchesAction("deny"))
	assert.False(t, list.MatchesAction("delete"))

	wildcard := ActionList{"deny", "*"}
	assert.True(t, wildcard.MatchesAction("anything"))
}

func TestPolicy_InEffect(t *testing.T) {
	now := time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC)
	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)

	assert.True(t, (&Policy{}).InEffect(now))
	assert.True(t, (&Policy{EffectiveFrom: &from, EffectiveUntil: &until}).InEffect(now))
	assert.False(t, (&Policy{EffectiveFrom: &until}).InEffect(now))
	assert.False(t, (&Policy{EffectiveUntil: &from}).InEffect(now))
	// The until bound is exclusive.
	assert.False(t, (&Policy{EffectiveUntil: &now}).InEffect(now))
}
