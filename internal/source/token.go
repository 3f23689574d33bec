// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/toeirei/avail/internal/logging"
	"golang.org/x/oauth2"
)

// TokenStore persists one OAuth2 token as a 0600 JSON file.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

// NewTokenStore returns a store backed by path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the backing file.
func (s *TokenStore) Path() string { return s.path }

// Load reads the token. A missing file yields ErrNotAuthorized.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotAuthorized
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("could not parse token %s: %w", s.path, err)
	}
	return &tok, nil
}

// Save writes tok, replacing any previous token.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// TokenSource wraps src so that refreshed tokens are written back to s.
func (s *TokenStore) TokenSource(src oauth2.TokenSource, current *oauth2.Token) oauth2.TokenSource {
	return &persistingSource{src: src, store: s, last: current}
}

type persistingSource struct {
	src   oauth2.TokenSource
	store *TokenStore
	mu    sync.Mutex
	last  *oauth2.Token
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil || p.last.AccessToken != tok.AccessToken {
		if err := p.store.Save(tok); err != nil {
			logging.Warnf("could not persist refreshed token: %v", err)
		}
		p.last = tok
	}
	return tok, nil
}
