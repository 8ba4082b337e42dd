package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	ResetForTest()
	dir := t.TempDir()

	require.NoError(t, Load(dir))

	s, err := Get()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, s.APIProvider)
	assert.Equal(t, DefaultLanguage, s.Language)

	_, statErr := os.Stat(filepath.Join(dir, settingsFileName))
	assert.NoError(t, statErr, "settings file should be created")
}

func TestLoadExistingFileNormalizesProvider(t *testing.T) {
	ResetForTest()
	dir := t.TempDir()
	payload := `{"api_provider":"Claude","language":"go"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), []byte(payload), 0o644))

	require.NoError(t, Load(dir))

	s, err := Get()
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, s.APIProvider)
	assert.Equal(t, DefaultAnthropicModel, s.SolutionModel, "unset models default per provider")
	assert.Equal(t, "go", s.Language)
}

func TestUpdateValidatesAndNotifies(t *testing.T) {
	ResetForTest()
	dir := t.TempDir()
	require.NoError(t, Load(dir))

	var notified []Settings
	Subscribe(func(s Settings) { notified = append(notified, s) })

	bad := DefaultSettings()
	bad.APIProvider = "mystery"
	assert.Error(t, Update(bad), "unknown provider must be rejected")
	assert.Empty(t, notified, "no notification on rejected update")

	good := DefaultSettings()
	good.APIProvider = ProviderGemini
	good.ExtractionModel = DefaultGeminiModel
	good.SolutionModel = DefaultGeminiModel
	good.DebuggingModel = DefaultGeminiModel
	require.NoError(t, Update(good))

	require.Len(t, notified, 1)
	assert.Equal(t, ProviderGemini, notified[0].APIProvider)

	s, err := Get()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, s.APIProvider)
}

func TestGetBeforeLoadFails(t *testing.T) {
	ResetForTest()
	_, err := Get()
	assert.Error(t, err)
}

func TestValidateOllamaRequiresHost(t *testing.T) {
	s := DefaultSettings()
	s.APIProvider = ProviderOllama
	assert.Error(t, s.Validate())

	s.OllamaHost = "http://localhost:11434"
	assert.NoError(t, s.Validate())
}
