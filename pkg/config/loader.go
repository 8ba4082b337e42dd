package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const settingsFileName = "settings.json"

// Load reads settings from dir/settings.json, creating the file with
// defaults when it does not exist. Must be called once at startup.
func Load(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if settingsDir != "" {
		return fmt.Errorf("config already loaded from %s", settingsDir)
	}

	path := filepath.Join(dir, settingsFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		defaults := DefaultSettings()
		if saveErr := save(dir, defaults); saveErr != nil {
			return fmt.Errorf("failed to write default settings: %w", saveErr)
		}
		settings = &defaults
		settingsDir = dir
		getLogger().Info("created default settings at %s", path)
		return nil
	case err != nil:
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	loaded.APIProvider = normalizeProvider(loaded.APIProvider)
	applyDefaults(&loaded)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("settings file %s: %w", path, err)
	}

	settings = &loaded
	settingsDir = dir
	getLogger().Info("settings loaded: provider=%s language=%s", loaded.APIProvider, loaded.Language)
	return nil
}

// applyDefaults fills unset fields so old settings files keep working after
// new fields are added.
func applyDefaults(s *Settings) {
	if s.APIProvider == "" {
		s.APIProvider = ProviderOpenAI
	}
	if s.ExtractionModel == "" {
		s.ExtractionModel = DefaultModelFor(s.APIProvider)
	}
	if s.SolutionModel == "" {
		s.SolutionModel = DefaultModelFor(s.APIProvider)
	}
	if s.DebuggingModel == "" {
		s.DebuggingModel = DefaultModelFor(s.APIProvider)
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.APIProvider == ProviderOllama && s.OllamaHost == "" {
		s.OllamaHost = "http://localhost:11434"
	}
}

func save(dir string, s Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Write to a temp file then rename for atomic replacement.
	path := filepath.Join(dir, settingsFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// ResetForTest clears the singleton so tests can Load fresh state.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	settings = nil
	settingsDir = ""
	listeners = nil
}
