// Package filestore provides the idempotent filesystem operations that
// materialize watched resources as local files.
//
// Every write uses atomic-replace semantics: content is staged into a
// temporary file in the target directory and renamed over the destination,
// so a concurrent reader observes either the previous complete content or
// the new complete content, never a truncated intermediate.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/types"

	"configmirror/internal/selector"
	"configmirror/pkg/logging"
)

const (
	directoryPermissions = 0755
	filePermissions      = 0644
)

// Store materializes resource payloads as files under a single target
// directory. It is safe for concurrent use across identities; each identity
// owns a disjoint set of file paths.
type Store struct {
	dir             string
	uniqueFilenames bool

	// mu guards mapping only. File I/O runs outside the lock: the
	// reconciler never processes the same identity concurrently, and
	// distinct identities own disjoint file paths.
	mu sync.Mutex

	// mapping tracks which files are currently materialized for each
	// identity, so Remove and update convergence know what to delete.
	mapping map[string]map[string]struct{}
}

// NewStore creates a Store rooted at dir. When uniqueFilenames is set,
// filenames are disambiguated with the resource's namespace and name so
// that identically-keyed entries from different resources do not collide.
func NewStore(dir string, uniqueFilenames bool) *Store {
	return &Store{
		dir:             dir,
		uniqueFilenames: uniqueFilenames,
		mapping:         make(map[string]map[string]struct{}),
	}
}

// EnsureDirectory creates the target directory and any missing parents.
// It is idempotent and safe under concurrent invocation.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, directoryPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// identityKey generates a unique key for a resource identity.
// Identities are unique within a kind, so the kind is part of the key.
func identityKey(kind selector.ResourceKind, id types.NamespacedName) string {
	return string(kind) + "/" + id.Namespace + "/" + id.Name
}

// fileName derives the on-disk filename for a data entry key.
func (s *Store) fileName(id types.NamespacedName, key string) string {
	if s.uniqueFilenames {
		return id.Namespace + "_" + id.Name + "_" + key
	}
	return key
}

// Write materializes one file per data entry for the given identity.
// Re-writing identical content is a no-op in effect. Entries that were
// previously materialized for this identity but are absent from data are
// removed, so an update converges the on-disk state exactly.
//
// The context is checked at each file boundary; a cancelled context aborts
// the remaining work and returns ctx.Err(). Files already replaced stay in
// place, files not yet touched keep their prior content.
func (s *Store) Write(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName, data map[string][]byte) error {
	key := identityKey(kind, id)
	prior := s.snapshotMapping(key)
	desired := make(map[string]struct{}, len(data))

	for entryKey, content := range data {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(s.dir, s.fileName(id, entryKey))
		desired[path] = struct{}{}

		if err := s.writeEntry(path, content); err != nil {
			return err
		}
	}

	// Drop files the identity no longer declares.
	for path := range prior {
		if _, keep := desired[path]; keep {
			continue
		}
		if err := removeIfPresent(path); err != nil {
			return err
		}
		logging.Debug("FileStore", "Removed stale file %s for %s", path, key)
	}

	s.setMapping(key, desired)
	return nil
}

// writeEntry stages content in a temporary file and atomically replaces the
// target path. Identical existing content short-circuits to a no-op.
func (s *Store) writeEntry(path string, content []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return nil
	}

	// Stage in the same directory so the rename cannot cross filesystems.
	staged := filepath.Join(s.dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(staged, content, filePermissions); err != nil {
		return fmt.Errorf("failed to stage file %s: %w", path, err)
	}

	if err := os.Rename(staged, path); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("failed to replace file %s: %w", path, err)
	}

	return nil
}

// Remove deletes every file currently mapped to the identity. keyHints are
// the data entry keys carried by the delete event; they cover the case where
// the process restarted and holds no in-memory mapping for the identity.
// Absence of any file is success, not failure.
func (s *Store) Remove(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName, keyHints []string) error {
	key := identityKey(kind, id)

	targets := s.snapshotMapping(key)
	for _, entryKey := range keyHints {
		targets[filepath.Join(s.dir, s.fileName(id, entryKey))] = struct{}{}
	}

	for path := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := removeIfPresent(path); err != nil {
			return err
		}
	}

	s.setMapping(key, nil)
	return nil
}

// Paths returns the files currently mapped to the identity.
func (s *Store) Paths(kind selector.ResourceKind, id types.NamespacedName) []string {
	targets := s.snapshotMapping(identityKey(kind, id))
	paths := make([]string, 0, len(targets))
	for path := range targets {
		paths = append(paths, path)
	}
	return paths
}

func (s *Store) snapshotMapping(key string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]struct{}, len(s.mapping[key]))
	for path := range s.mapping[key] {
		snapshot[path] = struct{}{}
	}
	return snapshot
}

func (s *Store) setMapping(key string, paths map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(paths) == 0 {
		delete(s.mapping, key)
		return
	}
	s.mapping[key] = paths
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}
