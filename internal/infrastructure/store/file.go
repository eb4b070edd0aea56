package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileTokenStore keeps the bearer credential in a single file on disk,
// replaced atomically on every write. It is the default persistence medium
// for desktop and dev deployments.
type FileTokenStore struct {
	path string
	log  zerolog.Logger
}

// NewFileTokenStore creates a store writing to path.
func NewFileTokenStore(path string, log zerolog.Logger) *FileTokenStore {
	return &FileTokenStore{path: path, log: log}
}

// Set persists token. Empty or whitespace-only tokens are never written;
// the attempt is logged and dropped.
func (s *FileTokenStore) Set(_ context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		s.log.Error().Msg("token store: refusing to persist blank credential")
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("token store: write failed")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("token store: replace failed")
		_ = os.Remove(tmp)
	}
}

// Get returns the stored credential, reporting absence for a missing,
// unreadable, or blank slot.
func (s *FileTokenStore) Get(_ context.Context) (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("token store: read failed")
		}
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the credential slot. Idempotent: clearing an absent slot is
// not an error.
func (s *FileTokenStore) Clear(_ context.Context) {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Error().Err(err).Str("path", s.path).Msg("token store: clear failed")
	}
}

// Dir returns the directory holding the slot, for readiness probes.
func (s *FileTokenStore) Dir() string {
	return filepath.Dir(s.path)
}
