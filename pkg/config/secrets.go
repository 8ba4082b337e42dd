package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/scrypt"
)

// Encrypted key-store parameters.
const (
	secretsFileName = "keys.json.enc"
	saltSize        = 16
	nonceSize       = 12
	scryptN         = 32768 // 2^15
	scryptR         = 8
	scryptP         = 1
	keySize         = 32 // AES-256
)

// In-memory decrypted API keys, keyed by provider.
//
//nolint:gochecknoglobals // in-memory secret storage
var (
	apiKeys   map[string]string
	apiKeysMu sync.RWMutex
)

// SetAPIKey stores a provider API key in memory.
func SetAPIKey(provider, key string) {
	apiKeysMu.Lock()
	defer apiKeysMu.Unlock()
	if apiKeys == nil {
		apiKeys = make(map[string]string)
	}
	apiKeys[provider] = key
}

// APIKeyFor returns the in-memory API key for a provider, or empty string.
// The ollama provider needs no key and always returns empty.
func APIKeyFor(provider string) string {
	apiKeysMu.RLock()
	defer apiKeysMu.RUnlock()
	return apiKeys[provider]
}

// LoadAPIKeysFromEnv seeds in-memory keys from conventional environment
// variables. Env values do not overwrite keys already set.
func LoadAPIKeysFromEnv() {
	envNames := map[string]string{
		ProviderOpenAI:    "OPENAI_API_KEY",
		ProviderGemini:    "GEMINI_API_KEY",
		ProviderAnthropic: "ANTHROPIC_API_KEY",
	}
	for provider, env := range envNames {
		if APIKeyFor(provider) != "" {
			continue
		}
		if v := os.Getenv(env); v != "" {
			SetAPIKey(provider, v)
		}
	}
}

// SecretsFileExists checks whether an encrypted key store exists in dir.
func SecretsFileExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, secretsFileName))
	return err == nil
}

// SaveAPIKeys encrypts the in-memory keys to dir/keys.json.enc with a
// password-derived key. File layout: [salt][nonce][ciphertext+tag], 0600.
func SaveAPIKeys(dir, password string) error {
	apiKeysMu.RLock()
	keysCopy := make(map[string]string, len(apiKeys))
	for k, v := range apiKeys {
		keysCopy[k] = v
	}
	apiKeysMu.RUnlock()

	passwordBytes := []byte(password)
	defer zero(passwordBytes)

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key(passwordBytes, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return fmt.Errorf("failed to derive encryption key: %w", err)
	}
	defer zero(key)

	plaintext, err := json.Marshal(keysCopy)
	if err != nil {
		return fmt.Errorf("failed to marshal keys: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	fileData := make([]byte, 0, saltSize+nonceSize+len(ciphertext))
	fileData = append(fileData, salt...)
	fileData = append(fileData, nonce...)
	fileData = append(fileData, ciphertext...)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	path := filepath.Join(dir, secretsFileName)
	if err := os.WriteFile(path, fileData, 0o600); err != nil {
		return fmt.Errorf("failed to write key store: %w", err)
	}
	return nil
}

// LoadAPIKeys decrypts dir/keys.json.enc into memory.
func LoadAPIKeys(dir, password string) error {
	path := filepath.Join(dir, secretsFileName)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat key store: %w", err)
	}
	if info.Mode().Perm() != 0o600 {
		LogInfo("key store has loose permissions (%04o); tightening to 0600", info.Mode().Perm())
		if chmodErr := os.Chmod(path, 0o600); chmodErr != nil {
			return fmt.Errorf("failed to fix key store permissions: %w", chmodErr)
		}
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read key store: %w", err)
	}

	minSize := saltSize + nonceSize + 16 // 16 is the GCM tag size
	if len(fileData) < minSize {
		return fmt.Errorf("key store is corrupted (too small)")
	}

	salt := fileData[:saltSize]
	nonce := fileData[saltSize : saltSize+nonceSize]
	ciphertext := fileData[saltSize+nonceSize:]

	passwordBytes := []byte(password)
	defer zero(passwordBytes)

	key, err := scrypt.Key(passwordBytes, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return fmt.Errorf("failed to derive decryption key: %w", err)
	}
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("failed to decrypt key store (wrong password?): %w", err)
	}

	var loaded map[string]string
	if err := json.Unmarshal(plaintext, &loaded); err != nil {
		return fmt.Errorf("failed to parse decrypted key store: %w", err)
	}

	apiKeysMu.Lock()
	apiKeys = loaded
	apiKeysMu.Unlock()
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
