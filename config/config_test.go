package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PROFILE_CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.ProfileCacheTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, "profile.events", cfg.KafkaTopic)
}

func TestGetEnvList_Empty(t *testing.T) {
	t.Setenv("SOME_LIST", "")
	assert.Nil(t, getEnvList("SOME_LIST"))
}
