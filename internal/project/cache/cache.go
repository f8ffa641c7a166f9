// Package cache persists per-file index fragments between builds. Entries
// are keyed by (path, fingerprint), so a changed file simply misses and the
// stale entry ages out. Deleting the cache directory is always safe.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/scanner"
)

// DirName is the cache directory created under the project root.
const DirName = ".gmlcache"

// memoryEntries bounds the in-process LRU that fronts the disk store.
const memoryEntries = 4096

// Store is a fragment cache backed by one JSON file per entry. Concurrent
// processes coordinate through a directory-wide file lock; within a
// process the store is safe for use from multiple goroutines.
type Store struct {
	dir  string
	lock *flock.Flock
	mem  *lru.Cache[string, *index.Fragment]
}

var _ index.FragmentCache = (*Store)(nil)

// Open creates or reuses the cache directory under root.
func Open(root string) (*Store, error) {
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	mem, err := lru.New[string, *index.Fragment](memoryEntries)
	if err != nil {
		return nil, err
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, "lock")),
		mem:  mem,
	}, nil
}

// entryKey hashes (path, fingerprint) into a filename so arbitrary project
// paths round-trip through the filesystem.
func entryKey(path string, fp scanner.Fingerprint) string {
	sum := sha256.Sum256([]byte(path + "\x00" + string(fp)))
	return hex.EncodeToString(sum[:16]) + ".json"
}

// Get loads the fragment for (path, fp). Every failure mode, including a
// corrupt or unreadable entry, is a miss; corrupt entries are deleted so
// they cannot miss forever.
func (s *Store) Get(path string, fp scanner.Fingerprint) (*index.Fragment, bool) {
	key := entryKey(path, fp)
	if frag, ok := s.mem.Get(key); ok {
		return frag, true
	}

	file := filepath.Join(s.dir, key)
	if err := s.lock.RLock(); err != nil {
		return nil, false
	}
	data, err := os.ReadFile(file)
	s.lock.Unlock()
	if err != nil {
		return nil, false
	}

	var frag index.Fragment
	if err := json.Unmarshal(data, &frag); err != nil || frag.Path != path || frag.Fingerprint != fp {
		os.Remove(file)
		return nil, false
	}
	s.mem.Add(key, &frag)
	return &frag, true
}

// Put stores a fragment. The entry file is written whole and renamed into
// place so readers never observe a partial entry.
func (s *Store) Put(frag *index.Fragment) error {
	data, err := json.Marshal(frag)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	key := entryKey(frag.Path, frag.Fingerprint)

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking cache: %w", err)
	}
	defer s.lock.Unlock()

	tmp, err := os.CreateTemp(s.dir, "entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	s.mem.Add(key, frag)
	return nil
}

// Clear removes every stored entry and the in-memory front.
func (s *Store) Clear() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking cache: %w", err)
	}
	defer s.lock.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	s.mem.Purge()
	return nil
}
