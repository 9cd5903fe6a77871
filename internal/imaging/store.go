package imaging

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// ErrNotFound is returned when a name has no buffer in the Store.
var ErrNotFound = errors.New("image not found")

// Store holds the named images of an editing session.
//
// Buffers are stored by pointer and treated as immutable: engine calls never
// modify their inputs, so a buffer handed out by Get may be read while other
// goroutines replace or delete the name it was stored under.
//
// Store is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	store := imaging.NewStore()
//	buf, _ := imaging.LoadFile("photo.png", "photo")
//	store.Put("photo", buf)
//	blurred := engine.Blur(buf)
//	store.Put("soft", blurred)
type Store struct {
	mu      sync.RWMutex
	buffers map[string]*raster.Buffer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		buffers: make(map[string]*raster.Buffer),
	}
}

// Put stores b under name, replacing any previous entry. The stored buffer
// carries name as its Name; b itself is not modified.
func (s *Store) Put(name string, b *raster.Buffer) error {
	if name == "" {
		return errors.New("image name must not be empty")
	}
	if b == nil {
		return fmt.Errorf("image %q: nil buffer", name)
	}
	if b.Name != name {
		b = b.Rename(name)
	}
	s.mu.Lock()
	s.buffers[name] = b
	s.mu.Unlock()
	return nil
}

// Get returns the buffer stored under name. The error wraps ErrNotFound
// when the name is unknown.
func (s *Store) Get(name string) (*raster.Buffer, error) {
	s.mu.RLock()
	b, ok := s.buffers[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("image %q: %w", name, ErrNotFound)
	}
	return b, nil
}

// Delete removes name from the store and reports whether it was present.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buffers[name]
	delete(s.buffers, name)
	return ok
}

// Names returns the stored names in ascending order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.buffers))
	for name := range s.buffers {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of stored images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

// Clear removes every image.
func (s *Store) Clear() {
	s.mu.Lock()
	s.buffers = make(map[string]*raster.Buffer)
	s.mu.Unlock()
}

// BufferInfo describes a stored image without its pixels.
type BufferInfo struct {
	// Name is the key the image is stored under.
	Name string `json:"name"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is always 3 (R, G, B).
	Channels int `json:"channels"`
}

// Info returns the metadata of b.
func Info(b *raster.Buffer) BufferInfo {
	return BufferInfo{
		Name:     b.Name,
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
	}
}

// Info returns the metadata of the image stored under name.
func (s *Store) Info(name string) (*BufferInfo, error) {
	b, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	info := Info(b)
	return &info, nil
}
