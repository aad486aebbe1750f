package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MAX_LOAN_MONTHS", "")
	t.Setenv("NOTIFY_INTERVAL", "")
	t.Setenv("CURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendFile, cfg.StoreBackend)
	assert.Equal(t, 360, cfg.MaxLoanMonths)
	assert.Equal(t, "100000000", cfg.MaxLoanAmount.String())
	assert.Equal(t, time.Hour, cfg.NotifyInterval)
	assert.Equal(t, "INR", cfg.Currency)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("MAX_LOAN_MONTHS", "30")
	t.Setenv("CURRENCY", "usd")
	t.Setenv("S3_BUCKET", "backups")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, 30, cfg.MaxLoanMonths)
	assert.Equal(t, "USD", cfg.Currency)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "STORE_BACKEND", "redis"},
		{"non-numeric months", "MAX_LOAN_MONTHS", "many"},
		{"zero months", "MAX_LOAN_MONTHS", "0"},
		{"bad amount", "MAX_LOAN_AMOUNT", "lots"},
		{"bad interval", "NOTIFY_INTERVAL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
