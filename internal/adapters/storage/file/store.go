package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

const (
	storeDirMode  = 0o700
	entryFileMode = 0o600
	tempPattern   = ".entry-*"
	jsonExtension = ".json"
)

// jsonKeys hold serialized objects. They are kept pretty-printed on disk and handed
// back compact, so the session directory stays readable by hand.
var jsonKeys = map[string]bool{
	domain.StorageKeyUser: true,
}

// Store keeps each session key in its own 0600 file under root: token and route
// as plain text, the user profile as user.json.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.Storage = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := entryName(key)
	if err != nil {
		return err
	}
	content, err := encodeEntry(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, storeDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return replaceFile(s.root, name, content)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := entryName(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	data, err := os.ReadFile(filepath.Join(s.root, name))
	s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("session entry %s: %w", name, domain.ErrKeyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read session entry %s: %w", name, err)
	}

	return decodeEntry(key, data)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := entryName(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session entry %s: %w", name, err)
	}
	return nil
}

// entryName maps a key to its file name. Keys are flat names; anything that would
// leave root or collide with temp files is rejected.
func entryName(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("storage key is empty")
	}
	if strings.ContainsAny(trimmed, `/\`) || strings.HasPrefix(trimmed, ".") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	if jsonKeys[trimmed] {
		return trimmed + jsonExtension, nil
	}
	return trimmed, nil
}

func encodeEntry(key, value string) ([]byte, error) {
	if !jsonKeys[strings.TrimSpace(key)] {
		return []byte(value + "\n"), nil
	}

	trimmed := bytes.TrimSpace([]byte(value))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("session entry %q must be a json object", key)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, trimmed, "", "  "); err != nil {
		return nil, fmt.Errorf("session entry %q must be a json object: %w", key, err)
	}
	pretty.WriteByte('\n')
	return pretty.Bytes(), nil
}

func decodeEntry(key string, data []byte) (string, error) {
	if !jsonKeys[strings.TrimSpace(key)] {
		return strings.TrimSuffix(string(data), "\n"), nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return "", fmt.Errorf("decode session entry %q: %w", key, err)
	}
	return compact.String(), nil
}

func replaceFile(dir, name string, content []byte) error {
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp session entry: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(entryFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp session entry: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session entry %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session entry %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("replace session entry %s: %w", name, err)
	}
	return nil
}
