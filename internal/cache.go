package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnoswap-labs/fitch/internal/types"
)

const (
	cacheFileName   = "check_cache.gob"
	defaultCacheAge = 24 * time.Hour
)

type CacheEntry struct {
	Hash         string
	Issues       []tt.Issue
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache remembers the issues found in a file, keyed by the SHA-256 of its
// contents. Entries are dropped when the file changes, when they grow older
// than the maximum age, or when a dependency such as the configuration file
// changes.
type Cache struct {
	CacheDir         string
	entries          map[string]CacheEntry
	mutex            sync.Mutex
	maxAge           time.Duration
	dependencyFiles  []string
	dependencyHashes map[string]string
	now              func() time.Time
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:         cacheDir,
		entries:          make(map[string]CacheEntry),
		maxAge:           defaultCacheAge,
		dependencyHashes: make(map[string]string),
		now:              time.Now,
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.CacheDir, cacheFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// AddDependency invalidates every entry whenever the file at path changes.
func (c *Cache) AddDependency(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	hash, err := getFileHash(path)
	if err != nil {
		return fmt.Errorf("failed to get hash for %s: %w", path, err)
	}
	c.dependencyFiles = append(c.dependencyFiles, path)
	c.dependencyHashes[path] = hash
	return nil
}

func (c *Cache) Set(filename string, source []byte, issues []tt.Issue) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.entries[filename] = CacheEntry{
		Hash:         contentHash(source),
		Issues:       issues,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return c.save()
}

func (c *Cache) Get(filename string, source []byte) ([]tt.Issue, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(entry, source) {
		delete(c.entries, filename)
		return nil, false
	}

	entry.LastAccessed = c.now()
	c.entries[filename] = entry
	return entry.Issues, true
}

func (c *Cache) isEntryInvalid(entry CacheEntry, source []byte) bool {
	if c.now().Sub(entry.CreatedAt) > c.maxAge {
		return true
	}
	if entry.Hash != contentHash(source) {
		return true
	}
	return c.haveDependenciesChanged()
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil || hash != c.dependencyHashes[file] {
			return true
		}
	}
	return false
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // ignore error as this is a manual operation
}

func contentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

func getFileHash(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return contentHash(content), nil
}
