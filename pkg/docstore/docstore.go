package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrDuplicateID = errors.New("duplicate_id")
)

// Store is the handle over a data directory. Collections opened through
// the same Store share one write lock per backing file, so concurrent
// read-modify-write cycles against the same document never interleave.
type Store struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func Open(dir string, log *zap.Logger) *Store {
	return &Store{
		dir:   dir,
		log:   log.Named("docstore"),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) lockFor(file string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[file]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[file] = l
	return l
}

// Collection is a typed CRUD view over one JSON document file holding a
// list of entities. Every operation loads the whole collection, applies
// the change and persists the whole collection back; there is no
// partial update. id extracts the unique identifier of an entity.
type Collection[T any] struct {
	path string
	id   func(T) string
	log  *zap.Logger
	mu   *sync.Mutex
}

// ProvideCollection opens the named collection file inside the store
// directory, creating it as an empty list when absent.
func ProvideCollection[T any](store *Store, file string, id func(T) string) *Collection[T] {
	c := &Collection[T]{
		path: filepath.Join(store.dir, file),
		id:   id,
		log:  store.log.With(zap.String("collection", file)),
		mu:   store.lockFor(file),
	}
	c.mu.Lock()
	c.ensure()
	c.mu.Unlock()
	return c
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(), nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.load() {
		if c.id(item) == id {
			return item, nil
		}
	}
	return zero, ErrNotFound
}

func (c *Collection[T]) Insert(ctx context.Context, entity T) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	id := c.id(entity)
	for _, item := range items {
		if c.id(item) == id {
			return zero, fmt.Errorf("insert %q: %w", id, ErrDuplicateID)
		}
	}
	if err := c.persist(append(items, entity)); err != nil {
		return zero, err
	}
	return entity, nil
}

func (c *Collection[T]) InsertBatch(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	seen := make(map[string]struct{}, len(items)+len(entities))
	for _, item := range items {
		seen[c.id(item)] = struct{}{}
	}
	for _, entity := range entities {
		id := c.id(entity)
		if _, dup := seen[id]; dup {
			return fmt.Errorf("insert %q: %w", id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
		items = append(items, entity)
	}
	return c.persist(items)
}

func (c *Collection[T]) Update(ctx context.Context, id string, entity T) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	for i, item := range items {
		if c.id(item) == id {
			items[i] = entity
			if err := c.persist(items); err != nil {
				return zero, err
			}
			return entity, nil
		}
	}
	return zero, ErrNotFound
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	for i, item := range items {
		if c.id(item) == id {
			items = append(items[:i], items[i+1:]...)
			if err := c.persist(items); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := make([]T, 0)
	for _, item := range c.load() {
		if pred(item) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.load()), nil
}

// load reads the whole collection. A missing, unreadable or corrupt
// backing file yields an empty collection instead of an error; corrupt
// reads are logged so the condition stays visible.
func (c *Collection[T]) load() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("collection unreadable, treating as empty", zap.Error(err))
		}
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn("collection corrupt, treating as empty", zap.Error(err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func (c *Collection[T]) persist(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

func (c *Collection[T]) ensure() {
	if _, err := os.Stat(c.path); err == nil {
		return
	}
	if err := c.persist([]T{}); err != nil {
		c.log.Warn("create collection file", zap.Error(err))
	}
}
