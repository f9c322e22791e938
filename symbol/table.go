package symbol

import (
	"sync"

	"github.com/wippyai/phpcore/value"
)

// Table interns names to symbols. Symbol IDs start at 1 and are never
// reused. Table is safe for concurrent use, so one table can back every
// request of an engine.
type Table struct {
	byName map[string]value.Symbol
	byID   []string // index 0 unused
	mu     sync.RWMutex
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string]value.Symbol),
		byID:   make([]string, 1, 256),
	}
}

// Intern returns the symbol for name, creating it if needed.
func (t *Table) Intern(name []byte) value.Symbol {
	t.mu.RLock()
	if id, ok := t.byName[string(name)]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	return t.insert(string(name))
}

// InternString is Intern for a string name.
func (t *Table) InternString(name string) value.Symbol {
	t.mu.RLock()
	if id, ok := t.byName[name]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	return t.insert(name)
}

func (t *Table) insert(name string) value.Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()

	// another goroutine may have won the race
	if id, ok := t.byName[name]; ok {
		return id
	}

	id := value.Symbol(len(t.byID))
	t.byName[name] = id
	t.byID = append(t.byID, name)
	return id
}

// Lookup returns the symbol for name without creating one.
func (t *Table) Lookup(name string) (value.Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the bytes of sym.
func (t *Table) Name(sym value.Symbol) ([]byte, bool) {
	s, ok := t.NameString(sym)
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

// NameString returns the name of sym as a string.
func (t *Table) NameString(sym value.Symbol) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if sym == 0 || int(sym) >= len(t.byID) {
		return "", false
	}
	return t.byID[sym], true
}

// Len returns the number of interned symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID) - 1
}
