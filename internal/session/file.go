// ABOUTME: File-backed session store persisted in the user's config directory
// ABOUTME: Optionally seals the file with gorilla/securecookie when a secret is set

package session

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gorilla/securecookie"
)

// sealName binds sealed files to this purpose so a value encoded for
// something else never decodes as a session.
const sealName = "study-portal-session"

type fileData struct {
	Values map[string]string `json:"values"`
}

// FileStore persists values as a single JSON document
type FileStore struct {
	path  string
	codec *securecookie.SecureCookie
	mu    sync.Mutex
}

// NewFileStore creates a store at path. A non-empty secret seals the file
// contents; files that fail to unseal read as empty.
func NewFileStore(path, secret string) *FileStore {
	fs := &FileStore{path: path}
	if secret != "" {
		sum := sha512.Sum512([]byte(secret))
		codec := securecookie.New(sum[:32], sum[32:])
		codec.SetSerializer(securecookie.JSONEncoder{})
		codec.MaxAge(0)
		codec.MaxLength(0)
		fs.codec = codec
	}
	return fs
}

// Path returns the backing file location
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	return f.save(values)
}

// load reads the current document; a missing file is an empty session
func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var data fileData
	if f.codec != nil {
		if err := f.codec.Decode(sealName, string(raw), &data); err != nil {
			slog.Warn("Session file failed to unseal, starting fresh", "path", f.path, "error", err)
			return map[string]string{}, nil
		}
	} else if err := json.Unmarshal(raw, &data); err != nil {
		slog.Warn("Session file is not valid JSON, starting fresh", "path", f.path, "error", err)
		return map[string]string{}, nil
	}

	if data.Values == nil {
		data.Values = map[string]string{}
	}
	return data.Values, nil
}

// save writes through a temp file and rename so readers never see a partial document
func (f *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data := fileData{Values: values}
	var raw []byte
	if f.codec != nil {
		sealed, err := f.codec.Encode(sealName, data)
		if err != nil {
			return fmt.Errorf("sealing session: %w", err)
		}
		raw = []byte(sealed)
	} else {
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding session: %w", err)
		}
		raw = encoded
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}
