// Package auth stores and resolves the Notion integration token.
//
// Resolution order: NOTION_TOKEN environment variable, then the OS
// keyring. The keyring falls back to an encrypted file backend on
// headless machines.
package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"

	siteerrors "github.com/salmonumbrella/notion-site/internal/errors"
)

const (
	// ServiceName is the keyring service name for notion-site.
	ServiceName = "notion-site"
	// KeyName is the key used to store the token in the keyring.
	KeyName = "notion-token"
	// EnvVarName is the environment variable checked before the keyring.
	EnvVarName = "NOTION_TOKEN"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for
	// non-interactive setups.
	KeyringPasswordEnvVarName = "NSITE_KEYRING_PASSWORD"
)

// Provider is the slice of the keyring API we use; swapped for a fake
// in tests.
type Provider interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

// openKeyringFunc opens the real keyring; overridable for tests.
var openKeyringFunc = openKeyring

// SetOpenKeyringFunc replaces the keyring opener for testing.
// Returns the original so it can be restored.
func SetOpenKeyringFunc(fn func() (Provider, error)) func() (Provider, error) {
	orig := openKeyringFunc
	openKeyringFunc = fn
	return orig
}

func openKeyring() (Provider, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return keyring.Open(keyring.Config{
		ServiceName: ServiceName,
		FileDir:     filepath.Join(home, ".config", "notion-site", "keyring"),
		FilePasswordFunc: func(prompt string) (string, error) {
			if pw := os.Getenv(KeyringPasswordEnvVarName); pw != "" {
				return pw, nil
			}
			return "", fmt.Errorf("set %s to unlock the file keyring", KeyringPasswordEnvVarName)
		},
	})
}

// GetToken resolves the token: environment first, then keyring.
func GetToken() (string, error) {
	if token := os.Getenv(EnvVarName); token != "" {
		return token, nil
	}
	return GetKeyringToken()
}

// GetKeyringToken reads the token from the OS keyring only.
func GetKeyringToken() (string, error) {
	ring, err := openKeyringFunc()
	if err != nil {
		return "", siteerrors.AuthRequiredError(err)
	}

	item, err := ring.Get(KeyName)
	if err != nil {
		return "", siteerrors.AuthRequiredError(err)
	}
	return string(item.Data), nil
}

// SetToken stores the token in the OS keyring.
func SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	ring, err := openKeyringFunc()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	return ring.Set(keyring.Item{
		Key:   KeyName,
		Data:  []byte(token),
		Label: "Notion integration token for notion-site",
	})
}

// RemoveToken deletes the token from the OS keyring.
func RemoveToken() error {
	ring, err := openKeyringFunc()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if err := ring.Remove(KeyName); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
