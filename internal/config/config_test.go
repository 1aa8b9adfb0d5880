package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntDefault(t *testing.T) {
	t.Setenv("TEST_INT_SET", "77")
	t.Setenv("TEST_INT_BAD", "many")

	assert.Equal(t, 77, intDefault("TEST_INT_SET", 5))
	assert.Equal(t, 5, intDefault("TEST_INT_BAD", 5))
	assert.Equal(t, 5, intDefault("TEST_INT_MISSING", 5))
}

func TestLoadSMTPDefaults(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "")

	cfg := LoadSMTP()
	assert.Empty(t, cfg.Host)
	assert.Equal(t, "587", cfg.Port)
	assert.Equal(t, "no-reply@lastminute.local", cfg.From)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_BOOL_ON", "true")
	t.Setenv("TEST_BOOL_OFF", "false")
	t.Setenv("TEST_DUR", "45s")

	assert.True(t, envBool("TEST_BOOL_ON", false))
	assert.False(t, envBool("TEST_BOOL_OFF", true))
	assert.True(t, envBool("TEST_BOOL_MISSING", true))
	assert.Equal(t, 45*time.Second, envDur("TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, envDur("TEST_DUR_MISSING", time.Minute))
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, post")
	assert.True(t, m["GET"])
	assert.True(t, m["POST"])
	assert.False(t, m["DELETE"])
}
