package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRoundTrip(t *testing.T) {
	dir := t.TempDir()

	SetAPIKey(ProviderOpenAI, "sk-test-123")
	SetAPIKey(ProviderAnthropic, "sk-ant-456")
	require.NoError(t, SaveAPIKeys(dir, "correct horse"))
	assert.True(t, SecretsFileExists(dir))

	// Wipe memory, then restore from disk.
	apiKeysMu.Lock()
	apiKeys = nil
	apiKeysMu.Unlock()
	assert.Empty(t, APIKeyFor(ProviderOpenAI))

	require.NoError(t, LoadAPIKeys(dir, "correct horse"))
	assert.Equal(t, "sk-test-123", APIKeyFor(ProviderOpenAI))
	assert.Equal(t, "sk-ant-456", APIKeyFor(ProviderAnthropic))
}

func TestLoadAPIKeysWrongPassword(t *testing.T) {
	dir := t.TempDir()
	SetAPIKey(ProviderOpenAI, "sk-test-789")
	require.NoError(t, SaveAPIKeys(dir, "right"))

	err := LoadAPIKeys(dir, "wrong")
	assert.Error(t, err)
}

func TestSecretsFileMissing(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, SecretsFileExists(dir))
	assert.Error(t, LoadAPIKeys(dir, "any"))
}
