// Package secrets keeps signed-in session tokens in a per-user file (0600)
// sealed with AES-GCM, so the console can be reopened without pasting a token.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const fileName = "sessions.json"

// ErrNotFound is returned when no session is saved under a profile.
var ErrNotFound = errors.New("no saved session")

type sessionFile struct {
	Sessions map[string]string `json:"sessions"` // profile -> base64(ciphertext)
}

// Store is a session file in one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

// DefaultStore uses the user config directory.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(dir, "txdesk")), nil
}

// Save seals token under profile, replacing any earlier one.
func (s *Store) Save(profile, token string) error {
	if profile = norm(profile); profile == "" {
		return fmt.Errorf("profile required")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token required")
	}
	sf, err := s.load()
	if err != nil {
		return err
	}
	if sf.Sessions == nil {
		sf.Sessions = map[string]string{}
	}
	ct, err := encrypt([]byte(strings.TrimSpace(token)))
	if err != nil {
		return err
	}
	sf.Sessions[profile] = base64.StdEncoding.EncodeToString(ct)
	return s.save(sf)
}

// Token returns the token saved under profile.
func (s *Store) Token(profile string) (string, error) {
	sf, err := s.load()
	if err != nil {
		return "", err
	}
	enc, ok := sf.Sessions[norm(profile)]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	return string(pt), nil
}

// Forget removes the token saved under profile. Missing profiles are not an
// error.
func (s *Store) Forget(profile string) error {
	sf, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := sf.Sessions[norm(profile)]; !ok {
		return nil
	}
	delete(sf.Sessions, norm(profile))
	return s.save(sf)
}

func (s *Store) path() string { return filepath.Join(s.dir, fileName) }

func (s *Store) load() (sessionFile, error) {
	var sf sessionFile
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return sessionFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, fmt.Errorf("read %s: %w", s.path(), err)
	}
	return sf, nil
}

func (s *Store) save(sf sessionFile) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func sealKey() []byte {
	hash := sha256.Sum256([]byte(fmt.Sprintf("txdesk-%s-%s", runtime.GOOS, os.Getenv("USER"))))
	return hash[:]
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(sealKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
