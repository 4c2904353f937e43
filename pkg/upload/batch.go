package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrBatchConsumed is returned when a batch is consumed a second time.
	ErrBatchConsumed = errors.New("upload: batch already consumed")
	// ErrEntryNotFound is returned when removing an unknown entry.
	ErrEntryNotFound = errors.New("upload: entry not found")
	// ErrBatchChanged is returned when files were added or removed while the
	// upload was being completed.
	ErrBatchChanged = errors.New("upload: batch changed during completion")
)

// Preview is a rendered thumbnail of a pending file.
type Preview struct {
	Width       int
	Height      int
	ContentType string
	Data        []byte
}

// Entry is one pending file of a batch.
type Entry struct {
	ID          uuid.UUID
	Name        string
	Size        int64
	ContentType string
	Preview     *Preview

	open func() (io.ReadCloser, error)
}

// Open returns the file content.
func (e Entry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return nil, fmt.Errorf("upload: entry %q has no content", e.Name)
	}
	return e.open()
}

// WithContent returns a copy of e whose content is data.
func (e Entry) WithContent(data []byte) Entry {
	e.Size = int64(len(data))
	e.open = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return e
}

// FromBytes builds an entry over in-memory content.
func FromBytes(name, contentType string, data []byte) Entry {
	entry := Entry{
		ID:          uuid.New(),
		Name:        name,
		ContentType: contentType,
	}
	return entry.WithContent(data)
}

// FromFile builds an entry reading path lazily. The content type is guessed
// from the extension.
func FromFile(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("upload: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Entry{}, fmt.Errorf("upload: %s is a directory", path)
	}
	return Entry{
		ID:          uuid.New(),
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Batch is the ordered set of files selected for one submission. Files can be
// added over several selections and removed until the batch is consumed.
// Methods are safe for concurrent use.
type Batch struct {
	mu       sync.Mutex
	entries  []Entry
	consumed bool
}

// NewBatch returns a batch holding entries.
func NewBatch(entries ...Entry) *Batch {
	b := &Batch{}
	b.Add(entries...)
	return b
}

// Add appends entries, assigning ids to those without one. Adding to a
// consumed batch is a no-op.
func (b *Batch) Add(entries ...Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return
	}
	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		b.entries = append(b.entries, entry)
	}
}

// Remove drops the entry with id.
func (b *Batch) Remove(id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return ErrBatchConsumed
	}
	for i, entry := range b.entries {
		if entry.ID == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// RemoveAt drops the entry at index.
func (b *Batch) RemoveAt(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return ErrBatchConsumed
	}
	if index < 0 || index >= len(b.entries) {
		return fmt.Errorf("%w: index %d", ErrEntryNotFound, index)
	}
	b.entries = append(b.entries[:index], b.entries[index+1:]...)
	return nil
}

// Replace swaps the entry sharing entry.ID, keeping its position.
func (b *Batch) Replace(entry Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return ErrBatchConsumed
	}
	for i := range b.entries {
		if b.entries[i].ID == entry.ID {
			b.entries[i] = entry
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, entry.ID)
}

// Len returns the number of pending files.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Entries returns a copy of the pending files in selection order.
func (b *Batch) Entries() []Entry {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Consume hands the entries over for submission. A batch can be consumed
// once; the entries are released afterwards.
func (b *Batch) Consume() ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return nil, ErrBatchConsumed
	}
	b.consumed = true
	out := b.entries
	b.entries = nil
	return out, nil
}

// consumeCount consumes the batch only if it still holds count entries.
func (b *Batch) consumeCount(count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return ErrBatchConsumed
	}
	if len(b.entries) != count {
		return fmt.Errorf("%w: reconciled %d files, batch holds %d", ErrBatchChanged, count, len(b.entries))
	}
	b.consumed = true
	b.entries = nil
	return nil
}

// Consumed reports whether the batch was already submitted.
func (b *Batch) Consumed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consumed
}
