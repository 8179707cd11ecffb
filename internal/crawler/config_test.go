package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Source: "test", BaseURL: "http://example.com"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestConfigValidateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing source", Config{BaseURL: "http://example.com"}},
		{"missing base url", Config{Source: "test"}},
		{"negative rate limit", Config{Source: "test", BaseURL: "http://x", RateLimit: -time.Second}},
		{"negative retries", Config{Source: "test", BaseURL: "http://x", MaxRetries: -1}},
		{"negative timeout", Config{Source: "test", BaseURL: "http://x", Timeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigMockFileAllowsMissingBaseURL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Source:         "test",
		CustomSettings: map[string]any{"mock_file": "testdata/list.xml"},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "testdata/list.xml", cfg.MockFile())

	empty := Config{Source: "empty", BaseURL: "http://x"}
	assert.Equal(t, "", empty.MockFile())
}
