package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "default", cfg.Sync.CampaignID)
	assert.Equal(t, 2*time.Second, cfg.Sync.SuppressionWindow)
	assert.Equal(t, 30*time.Second, cfg.Bestiary.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CAMPAIGN_ID", "camp-42")
	t.Setenv("SYNC_SUPPRESSION_WINDOW", "5s")
	t.Setenv("BESTIARY_TIMEOUT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "camp-42", cfg.Sync.CampaignID)
	assert.Equal(t, 5*time.Second, cfg.Sync.SuppressionWindow)
	assert.Equal(t, 10*time.Second, cfg.Bestiary.Timeout)
}

func TestLoad_IgnoresMalformedDuration(t *testing.T) {
	t.Setenv("SYNC_SUPPRESSION_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Sync.SuppressionWindow)
}
