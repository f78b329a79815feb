package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// FileStore keeps key-value pairs in a single TOML file managed by viper.
// Keys are treated case-insensitively and must not contain dots (viper
// interprets dots as nesting).
type FileStore struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// NewFileStore reads the file at path if it exists; a missing file is an
// empty store. The directory is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return &FileStore{v: v, path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.v.IsSet(key) {
		return "", false, nil
	}
	return s.v.GetString(key), true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	return s.write(s.v)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// viper has no unset; rebuild from the remaining settings.
	settings := s.v.AllSettings()
	delete(settings, strings.ToLower(key))
	nv := viper.New()
	nv.SetConfigFile(s.path)
	nv.SetConfigType("toml")
	for k, val := range settings {
		nv.Set(k, val)
	}
	if err := s.write(nv); err != nil {
		return err
	}
	s.v = nv
	return nil
}

func (s *FileStore) write(v *viper.Viper) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir state dir: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
