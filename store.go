package modelsync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MetadataStore persists ModelInfo records keyed by
// (application identity, model name).
//
// The client performs one Load before each request and one Save after a
// validated 200 response. Implementations must make individual reads and
// writes of a single record atomic; they are not required to serialize
// concurrent sync calls, which race last-writer-wins by design.
type MetadataStore interface {
	// Load returns the record for (app, name). The boolean reports whether
	// a record exists.
	Load(ctx context.Context, app, name string) (ModelInfo, bool, error)

	// Save writes the record for (app, info.Name), replacing any prior one.
	Save(ctx context.Context, app string, info ModelInfo) error

	// Delete removes the record for (app, name). Deleting a missing record
	// is not an error.
	Delete(ctx context.Context, app, name string) error

	// List returns all records for app, sorted by model name.
	List(ctx context.Context, app string) ([]ModelInfo, error)
}

// metadataDocument is the on-disk layout of one application's metadata file:
// model name → record.
type metadataDocument map[string]ModelInfo

// fileStore is the default MetadataStore, backed by one JSON document per
// application identity under baseDir.
type fileStore struct {
	// baseDir is the base directory for all storage operations.
	baseDir string

	// lockTimeout is the maximum duration to wait for file lock acquisition.
	lockTimeout time.Duration

	// mu protects concurrent in-process access to the metadata files.
	mu sync.RWMutex
}

// Ensure fileStore implements MetadataStore.
var _ MetadataStore = (*fileStore)(nil)

// envVarName constructs an environment variable name from the app name.
// Converts appName to uppercase and appends "_DATA_DIR".
// Example: envVarName("acme") returns "ACME_DATA_DIR".
func envVarName(appName string) string {
	return strings.ToUpper(appName) + "_DATA_DIR"
}

// NewFileStore creates the default file-backed store for the given
// configuration. The data directory is resolved with priority:
// environment variable > Config.DataDir > platform default.
func NewFileStore(cfg Config) (MetadataStore, error) {
	var baseDir string

	if envDir := os.Getenv(envVarName(cfg.AppName)); envDir != "" {
		baseDir = envDir
	} else if cfg.DataDir != "" {
		baseDir = cfg.DataDir
	} else {
		defaultDir, err := defaultDataDir(cfg.AppName)
		if err != nil {
			return nil, fmt.Errorf("failed to get default data dir: %w", err)
		}
		baseDir = defaultDir
	}

	s := &fileStore{baseDir: baseDir, lockTimeout: DefaultLockTimeout}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create storage directory: %v", ErrStorageError, err)
	}

	return s, nil
}

// metadataPath returns the metadata file for one application identity.
func (s *fileStore) metadataPath(app string) string {
	return filepath.Join(s.baseDir, app, "metadata.json")
}

// loadDocument reads and parses an application's metadata file.
// Returns an empty document if the file doesn't exist.
func (s *fileStore) loadDocument(app string) (metadataDocument, error) {
	data, err := os.ReadFile(s.metadataPath(app))
	if os.IsNotExist(err) {
		return make(metadataDocument), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	var doc metadataDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid metadata.json: %v", ErrStorageError, err)
	}

	return doc, nil
}

// saveDocument atomically writes an application's metadata file.
// Uses cross-process file locking so writes from multiple processes replace
// the document whole rather than interleaving.
func (s *fileStore) saveDocument(app string, mutate func(metadataDocument)) error {
	path := s.metadataPath(app)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrStorageError, err)
	}

	lock, err := newFileLock(path+".lock", s.lockTimeout)
	if err != nil {
		return fmt.Errorf("%w: failed to create lock: %v", ErrStorageError, err)
	}
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("%w: failed to acquire lock: %v", ErrStorageError, err)
	}
	defer lock.Unlock()

	doc, err := s.loadDocument(app)
	if err != nil {
		return err
	}
	mutate(doc)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrStorageError, err)
	}

	return atomicWrite(path, data)
}

// atomicWrite writes data to a file using write-then-rename for atomicity.
// The temp name carries a random suffix so unsynchronized concurrent writers
// never collide on the same temp path.
func atomicWrite(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %v", ErrStorageError, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // cleanup on failure
		return fmt.Errorf("%w: failed to rename temp file: %v", ErrStorageError, err)
	}

	return nil
}

// Load returns the record for (app, name).
func (s *fileStore) Load(ctx context.Context, app, name string) (ModelInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.loadDocument(app)
	if err != nil {
		return ModelInfo{}, false, err
	}

	info, ok := doc[name]
	return info, ok, nil
}

// Save writes the record for (app, info.Name).
func (s *fileStore) Save(ctx context.Context, app string, info ModelInfo) error {
	if info.Name == "" {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveDocument(app, func(doc metadataDocument) {
		doc[info.Name] = info
	})
}

// Delete removes the record for (app, name).
func (s *fileStore) Delete(ctx context.Context, app, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveDocument(app, func(doc metadataDocument) {
		delete(doc, name)
	})
}

// List returns all records for app, sorted by model name.
func (s *fileStore) List(ctx context.Context, app string) ([]ModelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.loadDocument(app)
	if err != nil {
		return nil, err
	}

	infos := make([]ModelInfo, 0, len(doc))
	for _, info := range doc {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}
