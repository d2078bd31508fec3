// store.go
//
// Record-keeping service for the Ramnagar High School mid-day meal programme
// Copyright (c) 2026 Ramnagar High School <mdm@ramnagarhs.edu>
//
// This file is part of mdm-service.
// mdm-service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mdm-service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mdm-service.
// If not, see <https://www.gnu.org/licenses/>.

// Package bridge keeps a local JSON cache document in step with the server.
// Writes to the cache push the whole document to the import endpoint; pulls
// replace the cache wholesale. Last writer wins on both sides.
package bridge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Document is the cache layout: one JSON member per collection plus the
// settings block. Members the server does not know are preserved untouched,
// so purely client-side keys survive a pull/push cycle.
type Document map[string]json.RawMessage

// Store is the on-disk cache document. All access goes through the mutex;
// the write hook fires outside the lock.
type Store struct {
	mu    sync.Mutex
	path  string
	doc   Document
	onSet func()
}

// NewStore loads the cache document from path, starting empty when the file
// does not exist yet.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, doc: Document{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// OnSet registers the hook called after every successful Set. The bridge
// uses it to trigger a push.
func (s *Store) OnSet(hook func()) {
	s.mu.Lock()
	s.onSet = hook
	s.mu.Unlock()
}

// Get returns the raw JSON value of one collection key, or nil.
func (s *Store) Get(key string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc[key]
}

// Set stores one collection value, persists the document and fires the write
// hook.
func (s *Store) Set(key string, value json.RawMessage) error {
	s.mu.Lock()
	s.doc[key] = value
	hook := s.onSet
	err := s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		hook()
	}
	return nil
}

// Replace swaps the whole document, as a pull does. The write hook does not
// fire; a pull must not trigger a push.
func (s *Store) Replace(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc == nil {
		doc = Document{}
	}
	s.doc = doc
	return s.persistLocked()
}

// Snapshot returns a copy of the whole document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(Document, len(s.doc))
	for k, v := range s.doc {
		out[k] = v
	}
	return out
}

// persistLocked writes the document to disk. Callers hold the mutex.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
