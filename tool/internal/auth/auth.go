package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"banglaixanh/tool/internal/config"
	"banglaixanh/tool/internal/logger"
)

var ErrNoToken = errors.New("no saved token")

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Login authenticates against the backend and stores the token to file.
func Login(ctx context.Context, api Authenticator, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", errors.New("username and password are required")
	}
	token, err := api.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	if err := SaveToken(token); err != nil {
		// the session still works, only the next start asks again
		logger.Warnf("Không lưu được token: %v", err)
	}
	SetCurrentToken(token)
	logger.Infof("Đăng nhập thành công: %s", username)
	return token, nil
}

func SaveToken(token string) error {
	path := config.TokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir token dir: %w", err)
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// LoadToken returns the saved token, or ErrNoToken when there is none.
func LoadToken() (string, error) {
	b, err := os.ReadFile(config.TokenFilePath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	t := strings.TrimSpace(string(b))
	if t == "" {
		return "", ErrNoToken
	}
	return t, nil
}

// Logout forgets the current token and removes the saved copy.
func Logout() error {
	SetCurrentToken("")
	err := os.Remove(config.TokenFilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
