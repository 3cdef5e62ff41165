package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/alpha-client/tokenstore"
)

const (
	fileMode   = 0o600
	folderMode = 0o700
)

var _ tokenstore.Store = (*Store)(nil)

// Store keeps the credentials in a small JSON document:
//
//	{"token": "...", "refresh_token": "..."}
//
// Every method swallows I/O errors; a broken folder behaves like empty storage.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a store writing to folder/fileName. The folder is created lazily.
func New(folder, fileName string) *Store {
	return &Store{path: filepath.Join(folder, fileName)}
}

// Path is the location of the session document.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(accessToken string, refreshToken *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("session file unreadable, overwriting")
		values = map[string]string{}
	}

	setOrDelete(values, tokenstore.KeyAccessToken, accessToken)
	if refreshToken != nil {
		setOrDelete(values, tokenstore.KeyRefreshToken, *refreshToken)
	}

	if err := s.write(values); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("session not persisted")
	}
}

func (s *Store) Load() tokenstore.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("session file unreadable")
		return tokenstore.Credentials{}
	}

	creds := tokenstore.Credentials{AccessToken: values[tokenstore.KeyAccessToken]}
	if rt, ok := values[tokenstore.KeyRefreshToken]; ok && rt != "" {
		creds.RefreshToken = &rt
	}
	return creds
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", s.path).Msg("session file not removed")
	}
}

func (s *Store) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}
	return values, nil
}

// write replaces the document atomically; an empty document removes the file.
func (s *Store) write(values map[string]string) error {
	if len(values) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing session file: %w", err)
		}
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, folderMode); err != nil {
		return fmt.Errorf("creating data folder: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

func setOrDelete(values map[string]string, key, value string) {
	if value == "" {
		delete(values, key)
		return
	}
	values[key] = value
}
