package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayloadLimit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "Megabytes", input: "12mb", want: 12 * 1024 * 1024},
		{name: "Kilobytes", input: "512kb", want: 512 * 1024},
		{name: "Bytes Suffix", input: "100b", want: 100},
		{name: "Bare Number", input: "1024", want: 1024},
		{name: "Uppercase", input: "2MB", want: 2 * 1024 * 1024},
		{name: "Whitespace", input: " 1mb ", want: 1024 * 1024},
		{name: "Gigabytes Unsupported", input: "1gb", wantErr: true},
		{name: "Negative", input: "-5mb", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Garbage", input: "dużo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayloadLimit(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DefaultPort, cfg.Port)
	require.Equal(t, DefaultDBDriver, cfg.DBDriver)
	require.Equal(t, int64(12*1024*1024), cfg.PayloadMaxBytes)
	require.Equal(t, DefaultRateLimitMax, cfg.RateLimitMax)
	require.Equal(t, DefaultAIProvider, cfg.AIProvider)
	require.Equal(t, DefaultPromptVersion, cfg.PromptVersion)
}

func TestLoadCollectsAllIssues(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("API_RATE_LIMIT_MAX", "-3")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_DRIVER")
	require.Contains(t, err.Error(), "AI_PROVIDER")
	require.Contains(t, err.Error(), "API_RATE_LIMIT_MAX")
}

func TestLoadMySQLRequiresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("FULL_DSN", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "FULL_DSN")
}
