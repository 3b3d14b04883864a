package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag stores up to a fixed number of diagnostics and counts the rest.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means
// the uint16 ceiling.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil || max == 0 {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add returns false when the limit is reached and d is only counted.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 { return b.max }

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез; не модифицировать.
func (b *Bag) Items() []Diagnostic { return b.items }

// Count returns how many stored diagnostics have severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors also holds when anything was dropped: only error diagnostics
// are produced in volume, so a full bag means a failed run.
func (b *Bag) HasErrors() bool {
	return b.dropped > 0 || slices.ContainsFunc(b.items, func(d Diagnostic) bool {
		return d.Severity >= SevError
	})
}

// Sort orders by file, span, then severity (errors first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeated diagnostics in place, keeping the first.
func (b *Bag) Dedup() {
	seen := make(map[identity]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		id := d.identity()
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
		return false
	})
}
