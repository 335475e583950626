package auth

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "ucdash"
	keyringUser    = "source_token"
	tokenFileName  = "source_token"
	fileMode       = 0600
)

// ErrNoToken means neither the keychain nor the fallback file hold a token.
var ErrNoToken = errors.New("no source token stored")

// TokenStore keeps the bearer token used by URL sources. The OS keychain is
// preferred; Dir holds a fallback file when the keychain is unavailable.
type TokenStore struct {
	Dir string
}

// Save stores token in the keychain, or in the fallback file.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token required")
	}

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return s.saveFile(token)
	}

	// drop the fallback file left by an earlier save
	os.Remove(s.filePath())
	return nil
}

// Load returns the stored token. A token found only in the fallback file is
// migrated into the keychain when possible.
func (s *TokenStore) Load() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}

	token, err = s.loadFile()
	if err != nil {
		return "", err
	}

	if migrateErr := keyring.Set(keyringService, keyringUser, token); migrateErr == nil {
		slog.Info("migrated token from file to OS keychain")
		os.Remove(s.filePath())
	}

	return token, nil
}

// Delete removes the token from both locations.
func (s *TokenStore) Delete() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Wrap(err, "failed to delete token from keychain")
	}
	if err := os.Remove(s.filePath()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete token file")
	}
	return nil
}

func (s *TokenStore) filePath() string {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, tokenFileName)
}

func (s *TokenStore) saveFile(token string) error {
	if err := os.WriteFile(s.filePath(), []byte(token), fileMode); err != nil {
		return errors.Wrapf(err, "failed to write token file: %s", s.filePath())
	}
	return nil
}

func (s *TokenStore) loadFile() (string, error) {
	b, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", errors.Wrapf(err, "reading token file %s", s.filePath())
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
