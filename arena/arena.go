package arena

import (
	"go.uber.org/zap"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

const (
	pageBits = 8
	pageSize = 1 << pageBits
	pageMask = pageSize - 1

	maxGeneration = 1<<16 - 1
)

// Arena owns every value of one request. A Handle encodes the arena tag,
// the slot generation and the slot index, so stale and foreign handles are
// rejected instead of resolving to an unrelated value.
//
// Slots live in fixed-size pages, so pointers returned by GetMut stay valid
// while the slot is live even as the arena grows.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	pages     []*page
	freeList  []uint32
	observers []observerEntry
	nextObsID int
	length    uint32
	live      int
	tag       uint32
	cell      *tagCell
}

type page [pageSize]slot

type slot struct {
	value value.Value
	gen   uint16
	valid bool
}

type observerEntry struct {
	o  Observer
	id int
}

// New creates an empty arena.
func New(cfg *Config) *Arena {
	capacity := 0
	if cfg != nil {
		capacity = cfg.Capacity
	}
	a := &Arena{
		pages:    make([]*page, 0, capacity/pageSize+1),
		freeList: make([]uint32, 0, 16),
	}
	bindTag(a)
	return a
}

func (a *Arena) encode(idx uint32, gen uint16) value.Handle {
	return value.Handle(uint64(a.tag)<<tagShift | uint64(gen)<<genShift | uint64(idx+1))
}

func (a *Arena) decode(h value.Handle) (*slot, error) {
	if h == 0 {
		return nil, errors.InvalidHandle(uint64(h), "zero handle")
	}
	if uint32(h>>tagShift) != a.tag {
		return nil, errors.InvalidHandle(uint64(h), "handle belongs to another arena")
	}
	raw := uint32(h) & maxIndex
	if raw == 0 || raw > a.length {
		return nil, errors.InvalidHandle(uint64(h), "slot out of range")
	}
	idx := raw - 1
	s := &a.pages[idx>>pageBits][idx&pageMask]
	if !s.valid || s.gen != uint16(h>>genShift) {
		return nil, errors.InvalidHandle(uint64(h), "stale handle")
	}
	return s, nil
}

// Alloc stores v in a fresh slot. It never returns a live handle.
func (a *Arena) Alloc(v value.Value) value.Handle {
	if v == nil {
		v = value.Null{}
	}
	var idx uint32
	if n := len(a.freeList); n > 0 {
		idx = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
	} else {
		if a.length == maxIndex {
			panic("arena: slot limit reached")
		}
		idx = a.length
		if idx>>pageBits >= uint32(len(a.pages)) {
			a.pages = append(a.pages, new(page))
		}
		a.length++
	}

	s := &a.pages[idx>>pageBits][idx&pageMask]
	s.value = v
	s.valid = true
	a.live++

	h := a.encode(idx, s.gen)
	a.notify(Event{Type: EventAllocated, Handle: h, Value: v})
	return h
}

// Get resolves h.
func (a *Arena) Get(h value.Handle) (value.Value, error) {
	s, err := a.decode(h)
	if err != nil {
		return nil, err
	}
	return s.value, nil
}

// GetMut returns a pointer to the value stored at h. Writing through the
// pointer replaces the slot value without notifying observers.
func (a *Arena) GetMut(h value.Handle) (*value.Value, error) {
	s, err := a.decode(h)
	if err != nil {
		return nil, err
	}
	return &s.value, nil
}

// Set replaces the value stored at h.
func (a *Arena) Set(h value.Handle, v value.Value) error {
	s, err := a.decode(h)
	if err != nil {
		return err
	}
	if v == nil {
		v = value.Null{}
	}
	s.value = v
	a.notify(Event{Type: EventReplaced, Handle: h, Value: v})
	return nil
}

// Free releases h. The slot may be reused under a new generation; h itself
// never resolves again.
func (a *Arena) Free(h value.Handle) error {
	s, err := a.decode(h)
	if err != nil {
		Logger().Debug("free of invalid handle", zap.Stringer("handle", h), zap.Error(err))
		return err
	}
	v := s.value
	s.value = nil
	s.valid = false
	a.live--

	idx := uint32(h)&maxIndex - 1
	if s.gen == maxGeneration {
		// retired: reusing it would let an old handle validate again
		Logger().Debug("retiring slot", zap.Uint32("slot", idx))
	} else {
		s.gen++
		a.freeList = append(a.freeList, idx)
	}

	a.notify(Event{Type: EventFreed, Handle: h, Value: v})
	return nil
}

// Deref returns a resolver that maps invalid handles to Null.
func (a *Arena) Deref() value.Deref {
	return func(h value.Handle) value.Value {
		v, err := a.Get(h)
		if err != nil {
			return value.Null{}
		}
		return v
	}
}

// Len returns the number of live slots.
func (a *Arena) Len() int {
	return a.live
}

// Each calls fn for every live slot in slot order until fn returns false.
func (a *Arena) Each(fn func(value.Handle, value.Value) bool) {
	for idx := uint32(0); idx < a.length; idx++ {
		s := &a.pages[idx>>pageBits][idx&pageMask]
		if s.valid {
			if !fn(a.encode(idx, s.gen), s.value) {
				return
			}
		}
	}
}

// Subscribe registers o for lifecycle events and returns a function that
// removes it.
func (a *Arena) Subscribe(o Observer) (cancel func()) {
	a.nextObsID++
	id := a.nextObsID
	a.observers = append(a.observers, observerEntry{o: o, id: id})
	return func() {
		for i, e := range a.observers {
			if e.id == id {
				a.observers = append(a.observers[:i], a.observers[i+1:]...)
				return
			}
		}
	}
}

// Close frees every live slot, notifying observers, and re-tags the arena
// so handles issued before Close never resolve again. The arena remains
// usable afterwards.
func (a *Arena) Close() error {
	var handles []value.Handle
	a.Each(func(h value.Handle, _ value.Value) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		if err := a.Free(h); err != nil {
			return err
		}
	}
	a.pages = a.pages[:0]
	a.freeList = a.freeList[:0]
	a.length = 0
	a.retag()
	Logger().Debug("arena closed", zap.Int("freed", len(handles)))
	return nil
}

func (a *Arena) notify(e Event) {
	for _, entry := range a.observers {
		entry.o.OnArenaEvent(e)
	}
}
