package bookmark

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hpungsan/hexmark/internal/errors"
)

// Slot is one registry cell. A slot whose Name is empty is a tombstone.
type Slot struct {
	Bookmark

	// DeletedAt is the Unix time the slot was tombstoned (0 while live)
	DeletedAt int64 `json:"deleted_at,omitempty"`
}

// Deleted reports whether the slot is a tombstone.
func (s Slot) Deleted() bool {
	return s.Name == ""
}

// Entry pairs a live bookmark with its slot index.
type Entry struct {
	Index int `json:"index"`
	Bookmark
}

// Tracker is told about a bookmark written from an open document so the
// document can follow the position while it is edited.
type Tracker interface {
	TrackBookmark(index int, offset int64)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// Registry is the authoritative set of bookmarks. Slots are only ever
// appended; removal leaves a tombstone so indices held by rows, documents and
// callers stay valid for the lifetime of the registry.
type Registry struct {
	slots []Slot
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upsert writes a bookmark. An existing live bookmark with the same name is
// overwritten in place and keeps its index; otherwise a new slot is appended.
// Both timestamps are set to now. tracker may be nil.
func (r *Registry) Upsert(name, filePath string, offset int64, tracker Tracker) (int, error) {
	if err := ValidateName(name); err != nil {
		return -1, err
	}
	if offset < 0 {
		return -1, errors.NewInvalidRequest("offset must not be negative")
	}

	now := r.now().Unix()
	b := Bookmark{
		Name:       name,
		FilePath:   filePath,
		Offset:     offset,
		ModifiedAt: now,
		AccessedAt: now,
	}

	index, err := r.LookupByName(name)
	if err != nil {
		index = len(r.slots)
		r.slots = append(r.slots, Slot{Bookmark: b})
	} else {
		r.slots[index] = Slot{Bookmark: b}
	}

	if tracker != nil {
		tracker.TrackBookmark(index, offset)
	}
	return index, nil
}

// Put writes b as given, timestamps included, overwriting a live bookmark of
// the same name in place or appending a new slot. It is used to load records
// that carry their own history.
func (r *Registry) Put(b Bookmark) (int, error) {
	if err := ValidateName(b.Name); err != nil {
		return -1, err
	}
	if b.Offset < 0 {
		return -1, errors.NewInvalidRequest("offset must not be negative")
	}

	index, err := r.LookupByName(b.Name)
	if err != nil {
		index = len(r.slots)
		r.slots = append(r.slots, Slot{Bookmark: b})
		return index, nil
	}
	r.slots[index] = Slot{Bookmark: b}
	return index, nil
}

// LookupByName returns the index of the live bookmark called name.
func (r *Registry) LookupByName(name string) (int, error) {
	if name != "" {
		for i := range r.slots {
			if r.slots[i].Name == name {
				return i, nil
			}
		}
	}
	return -1, errors.NewNotFound(name)
}

// LookupByIndex returns the bookmark at index. Tombstoned and out-of-range
// indices are NOT_FOUND. Internal bookmarks resolve normally.
func (r *Registry) LookupByIndex(index int) (Bookmark, error) {
	if index < 0 || index >= len(r.slots) || r.slots[index].Deleted() {
		return Bookmark{}, errors.NewNotFound(strconv.Itoa(index))
	}
	return r.slots[index].Bookmark, nil
}

// Remove tombstones the slot at index. Other indices are unaffected.
func (r *Registry) Remove(index int) error {
	if _, err := r.LookupByIndex(index); err != nil {
		return err
	}
	r.slots[index] = Slot{DeletedAt: r.now().Unix()}
	return nil
}

// Clamp lowers the offset at index to offset and stamps ModifiedAt.
// It returns false without changes when offset is not below the current one.
func (r *Registry) Clamp(index int, offset int64) (bool, error) {
	b, err := r.LookupByIndex(index)
	if err != nil {
		return false, err
	}
	if offset < 0 {
		return false, errors.NewInvalidRequest("offset must not be negative")
	}
	if offset >= b.Offset {
		return false, nil
	}
	r.slots[index].Offset = offset
	r.slots[index].ModifiedAt = r.now().Unix()
	return true, nil
}

// Touch stamps AccessedAt at index.
func (r *Registry) Touch(index int) error {
	if _, err := r.LookupByIndex(index); err != nil {
		return err
	}
	r.slots[index].AccessedAt = r.now().Unix()
	return nil
}

// EnumerateLive returns live, non-internal bookmarks in index order.
func (r *Registry) EnumerateLive() []Entry {
	entries := make([]Entry, 0, len(r.slots))
	for i, s := range r.slots {
		if s.Deleted() || s.IsInternal() {
			continue
		}
		entries = append(entries, Entry{Index: i, Bookmark: s.Bookmark})
	}
	return entries
}

// Count returns the number of live, non-internal bookmarks.
func (r *Registry) Count() int {
	n := 0
	for _, s := range r.slots {
		if !s.Deleted() && !s.IsInternal() {
			n++
		}
	}
	return n
}

// Len returns the number of slots including tombstones.
func (r *Registry) Len() int {
	return len(r.slots)
}

// Slots returns a copy of every slot, tombstones included, for persistence.
func (r *Registry) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Restore replaces the registry contents with slots loaded from storage.
// The slice position is the index. Duplicate live names are rejected.
func (r *Registry) Restore(slots []Slot) error {
	seen := make(map[string]int, len(slots))
	for i, s := range slots {
		if s.Deleted() {
			continue
		}
		if err := ValidateName(s.Name); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return fmt.Errorf("slot %d: name %q already used by slot %d", i, s.Name, prev)
		}
		seen[s.Name] = i
	}
	r.slots = make([]Slot, len(slots))
	copy(r.slots, slots)
	return nil
}
