package value

// omap is an insertion-ordered map from K to Handle with positional access.
// Deletion is eager: later entries shift down so positions stay dense.
type omap[K comparable] struct {
	keys  []K
	vals  []Handle
	index map[K]int
}

func newOmap[K comparable](capacity int) omap[K] {
	if capacity < 0 {
		capacity = 0
	}
	return omap[K]{
		keys:  make([]K, 0, capacity),
		vals:  make([]Handle, 0, capacity),
		index: make(map[K]int, capacity),
	}
}

func (m *omap[K]) len() int { return len(m.keys) }

func (m *omap[K]) get(k K) (Handle, bool) {
	i, ok := m.index[k]
	if !ok {
		return 0, false
	}
	return m.vals[i], true
}

func (m *omap[K]) pos(k K) (int, bool) {
	i, ok := m.index[k]
	return i, ok
}

// set replaces the value of an existing key in place or appends a new entry.
// It reports whether the key was new.
func (m *omap[K]) set(k K, h Handle) bool {
	if i, ok := m.index[k]; ok {
		m.vals[i] = h
		return false
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, h)
	return true
}

func (m *omap[K]) delete(k K) bool {
	i, ok := m.index[k]
	if !ok {
		return false
	}
	delete(m.index, k)
	copy(m.keys[i:], m.keys[i+1:])
	copy(m.vals[i:], m.vals[i+1:])
	var zero K
	m.keys[len(m.keys)-1] = zero
	m.keys = m.keys[:len(m.keys)-1]
	m.vals = m.vals[:len(m.vals)-1]
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return true
}

func (m *omap[K]) clone() omap[K] {
	c := omap[K]{
		keys:  make([]K, len(m.keys), cap(m.keys)),
		vals:  make([]Handle, len(m.vals), cap(m.vals)),
		index: make(map[K]int, len(m.index)),
	}
	copy(c.keys, m.keys)
	copy(c.vals, m.vals)
	for k, v := range m.index {
		c.index[k] = v
	}
	return c
}
