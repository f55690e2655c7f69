package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/textileio/cli"
)

func TestFlagDefaults(t *testing.T) {
	for name, def := range map[string]string{
		"retry-in-doubt-charges": "true",
		"retry-failed-charges":   "false",
		"application-fee-rate":   "0.15",
		"max-retry-count":        "100",
	} {
		f := rootCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, def, f.DefValue, name)
	}
	assert.Equal(t, 0.15, v.GetFloat64("application-fee-rate"))
	assert.True(t, v.GetBool("retry-in-doubt-charges"))
}

func TestConfigMasksSecrets(t *testing.T) {
	v.Set("stripe-secret-key", "sk_test_secret")
	v.Set("postgres-uri", "postgres://settler:pgpass@db/settler")
	t.Cleanup(func() {
		v.Set("stripe-secret-key", "")
		v.Set("postgres-uri", "")
	})

	data, err := cli.MarshalConfig(v, false, secrets...)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk_test_secret")
	assert.NotContains(t, string(data), "pgpass")
	assert.Contains(t, string(data), "redis://127.0.0.1:6379/0")
}
