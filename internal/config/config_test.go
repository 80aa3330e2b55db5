package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdminEmails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "two addresses",
			raw:  "admin@careshare.app,demo@careshare.app",
			want: []string{"admin@careshare.app", "demo@careshare.app"},
		},
		{
			name: "single address",
			raw:  "admin@careshare.app",
			want: []string{"admin@careshare.app"},
		},
		{
			name: "empty entries dropped",
			raw:  ",admin@careshare.app,",
			want: []string{"admin@careshare.app"},
		},
		{
			name: "no trimming inside entries",
			raw:  " admin@careshare.app",
			want: []string{" admin@careshare.app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := parseAdminEmails(tt.raw)
			assert.Len(t, set, len(tt.want))
			for _, e := range tt.want {
				_, ok := set[e]
				assert.True(t, ok, "expected %q in set", e)
			}
		})
	}
}

func TestLoad_AdminEmailsFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "ops@x.com")

	cfg := Load()
	_, ok := cfg.AdminEmails["ops@x.com"]
	assert.True(t, ok)
	_, ok = cfg.AdminEmails["admin@careshare.app"]
	assert.False(t, ok, "defaults must not leak in when ADMIN_EMAILS is set")
}

func TestLoad_DefaultAdminEmails(t *testing.T) {
	// empty reads as unset; t.Setenv restores any ambient value afterwards
	t.Setenv("ADMIN_EMAILS", "")

	cfg := Load()
	assert.Len(t, cfg.AdminEmails, 2)
	_, ok := cfg.AdminEmails["admin@careshare.app"]
	assert.True(t, ok)
	_, ok = cfg.AdminEmails["demo@careshare.app"]
	assert.True(t, ok)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_CONFIG_VAR", "custom")

	assert.Equal(t, "custom", getEnv("TEST_CONFIG_VAR", "default"))
	assert.Equal(t, "default", getEnv("TEST_CONFIG_VAR_NOT_SET", "default"))
}
