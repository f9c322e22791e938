package arena

import (
	"runtime"
	"sync"
)

// Handle layout, high to low: 24-bit arena tag, 16-bit generation,
// 24-bit slot index + 1.
const (
	tagBits   = 24
	genShift  = indexBits
	tagShift  = indexBits + 16
	indexBits = 24

	maxTag   = 1<<tagBits - 1
	maxIndex = 1<<indexBits - 1
)

// tags hands out arena tags. A tag stays reserved while its arena is
// reachable, so two live arenas never share one, even after the counter
// wraps.
var tags = struct {
	mu   sync.Mutex
	next uint32
	live map[uint32]struct{}
}{live: make(map[uint32]struct{})}

// tagCell holds the current tag of an arena for its cleanup.
type tagCell struct {
	tag uint32
}

func acquireTag() uint32 {
	tags.mu.Lock()
	defer tags.mu.Unlock()
	if len(tags.live) >= maxTag {
		panic("arena: every arena tag is in use")
	}
	for {
		tags.next = (tags.next + 1) & maxTag
		if tags.next == 0 {
			continue
		}
		if _, used := tags.live[tags.next]; !used {
			tags.live[tags.next] = struct{}{}
			return tags.next
		}
	}
}

func releaseTag(t uint32) {
	tags.mu.Lock()
	delete(tags.live, t)
	tags.mu.Unlock()
}

// bindTag reserves a tag for a and releases it once a is unreachable.
func bindTag(a *Arena) {
	a.cell = &tagCell{tag: acquireTag()}
	a.tag = a.cell.tag
	runtime.AddCleanup(a, func(c *tagCell) { releaseTag(c.tag) }, a.cell)
}

// retag swaps the tag of a for a fresh one.
func (a *Arena) retag() {
	old := a.cell.tag
	a.cell.tag = acquireTag()
	a.tag = a.cell.tag
	releaseTag(old)
}
