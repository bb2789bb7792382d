package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("trending_feed=on,email_digest=off,new_composer=true,dark_mode=false,beta_badge=1,old_nav=0")

	assert.True(t, m.Enabled("trending_feed", 1))
	assert.True(t, m.Enabled("new_composer", 1))
	assert.True(t, m.Enabled("beta_badge", 1))

	assert.False(t, m.Enabled("email_digest", 1))
	assert.False(t, m.Enabled("dark_mode", 1))
	assert.False(t, m.Enabled("old_nav", 1))
	assert.False(t, m.Enabled("never_configured", 1))
}

func TestEnabled_PercentageRollout(t *testing.T) {
	m := NewManager("full=100%,dark_launch=0%,canary=25%")

	assert.True(t, m.Enabled("full", 1), "full rollout is on for everyone")
	assert.False(t, m.Enabled("dark_launch", 1), "zero rollout is off for everyone")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42),
			"a user's rollout decision must not flap between requests")
	}

	assert.False(t, m.Enabled("canary", 0), "anonymous users stay out of partial rollouts")
}

func TestNewManager_SkipsMalformedPairs(t *testing.T) {
	m := NewManager(" bad ,trending_feed=on, canary = 20% ,email_digest=off ")

	raw := m.Raw()
	require.Len(t, raw, 3)
	assert.Equal(t, "on", raw["trending_feed"])
	assert.Equal(t, "20%", raw["canary"])
	assert.Equal(t, "off", raw["email_digest"])
}

func TestSnapshot_CoversEveryFlag(t *testing.T) {
	m := NewManager("trending_feed=on,canary=20%,email_digest=off")

	snap := m.Snapshot(123)
	require.Len(t, snap, 3)
	assert.True(t, snap["trending_feed"])
	assert.False(t, snap["email_digest"])
}
