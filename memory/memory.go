// Package memory implements the interpreter's linear memory: a
// growable store of ints.Int cells addressed by small non-negative
// integers, allocated in fixed-size pages on demand.
package memory

import "github.com/jcorbin/goforth/ints"

// DefaultPageSize is used when a Memory's PageSize is left zero.
const DefaultPageSize = 256

// Memory is a paged, growable array of ints.Int. The zero value is
// ready to use.
type Memory struct {
	// PageSize overrides the default page allocation granularity;
	// read on each Stor.
	PageSize uint
	// Limit, if non-zero, is the highest address (exclusive) that
	// Stor may grow memory to; exceeding it makes Stor and Append
	// report ok=false (the interp package maps that to
	// ferrors.InvalidAddress).
	Limit uint

	pages [][]ints.Int
	bases []uint
	size  uint
}

// Size returns one past the highest address ever stored to.
func (m *Memory) Size() uint { return m.size }

// WithinLimit reports whether addr is allowed by Limit (0 means
// unlimited).
func (m *Memory) WithinLimit(addr uint) bool {
	return m.Limit == 0 || addr < m.Limit
}

// Load returns the cell at addr. Unallocated pages read back as zero.
// ok is false if addr exceeds Limit.
func (m *Memory) Load(addr uint) (val ints.Int, ok bool) {
	if !m.WithinLimit(addr) {
		return 0, false
	}
	if len(m.pages) == 0 {
		return 0, true
	}
	pageID := m.findPage(addr)
	base, page := m.bases[pageID], m.pages[pageID]
	if i := addr - base; addr >= base && int(i) < len(page) {
		return page[i], true
	}
	return 0, true
}

// Stor writes values starting at addr, allocating pages as needed.
// ok is false if the write would exceed Limit; no partial write is
// made in that case.
func (m *Memory) Stor(addr uint, values ...ints.Int) (ok bool) {
	if len(values) == 0 {
		return true
	}
	end := addr + uint(len(values))
	if !m.WithinLimit(end - 1) {
		return false
	}

	pageSize := m.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	if end > m.size {
		m.size = end
	}

	pageID := m.findPage(addr)
	if pageID < len(m.bases) && m.bases[pageID]+uint(len(m.pages[pageID])) <= addr {
		pageID++ // addr lies past the page findPage chose
	}
	for ; addr < end; pageID++ {
		base, page := m.allocPage(pageID, addr, pageSize)
		if skip := addr - base; skip > 0 {
			if int(skip) >= len(page) {
				continue
			}
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}
	return true
}

// Append grows memory by len(values), writing them at the current
// Size(); used by `,` and `allot`.
func (m *Memory) Append(values ...ints.Int) (addr uint, ok bool) {
	addr = m.Size()
	ok = m.Stor(addr, values...)
	return addr, ok
}

func (m *Memory) findPage(addr uint) int {
	if len(m.bases) == 0 {
		return 0
	}
	i, j := 0, len(m.bases)-1
	for i < j {
		h := (i + j + 1) / 2
		if m.bases[h] <= addr {
			i = h
		} else {
			j = h - 1
		}
	}
	return i
}

func (m *Memory) allocPage(pageID int, addr, pageSize uint) (base uint, page []ints.Int) {
	if pageID < len(m.bases) {
		base, page = m.bases[pageID], m.pages[pageID]
		if base <= addr && addr < base+uint(len(page)) {
			return base, page
		}
	}

	base = addr / pageSize * pageSize
	if pageID > 0 {
		if prevEnd := m.bases[pageID-1] + uint(len(m.pages[pageID-1])); base < prevEnd {
			base = prevEnd
		}
	}
	page = make([]ints.Int, pageSize)

	m.bases = append(m.bases, 0)
	m.pages = append(m.pages, nil)
	copy(m.bases[pageID+1:], m.bases[pageID:])
	copy(m.pages[pageID+1:], m.pages[pageID:])
	m.bases[pageID] = base
	m.pages[pageID] = page
	return base, page
}
