// Package memimg holds a firmware image as a sparse mapping from absolute
// address to byte. Coverage is tracked explicitly: an address that was never
// written is a gap, distinguishable from a zero byte, and sparse images with
// widely separated blocks never materialize the space between them.
package memimg

import (
	"fmt"
	"sort"
)

// GapError indicates a read or write touching an address that was never
// written into the image.
type GapError struct {
	Address uint32
}

func (e *GapError) Error() string {
	return fmt.Sprintf("address 0x%08X not covered by image", e.Address)
}

// segment is a contiguous run of covered addresses.
type segment struct {
	addr uint32
	data []byte
}

func (s *segment) end() uint64 {
	return uint64(s.addr) + uint64(len(s.data))
}

// Image is a sparse byte-addressable memory image. Segments are kept sorted
// by address and coalesced when loads make them contiguous.
type Image struct {
	segs []*segment
}

func New() *Image {
	return &Image{}
}

// find returns the index of the first segment whose end is above addr.
// That segment either contains addr or is entirely after it.
func (m *Image) find(addr uint32) int {
	return sort.Search(len(m.segs), func(i int) bool {
		return m.segs[i].end() > uint64(addr)
	})
}

// Set writes p at addr, extending coverage as needed. Later writes win over
// earlier ones at the same address. This is the loader path; patching code
// uses WriteAt, which never extends coverage.
func (m *Image) Set(addr uint32, p []byte) {
	for len(p) > 0 {
		i := m.find(addr)
		if i < len(m.segs) && m.segs[i].addr <= addr {
			// Overwrite inside an existing segment.
			seg := m.segs[i]
			off := addr - seg.addr
			n := copy(seg.data[off:], p)
			addr += uint32(n)
			p = p[n:]
			continue
		}

		// Uncovered up to the next segment (if any).
		n := len(p)
		if i < len(m.segs) {
			if gap := m.segs[i].addr - addr; uint64(n) > uint64(gap) {
				n = int(gap)
			}
		}

		if i > 0 && m.segs[i-1].end() == uint64(addr) {
			// Grow the preceding segment.
			m.segs[i-1].data = append(m.segs[i-1].data, p[:n]...)
		} else {
			seg := &segment{addr: addr, data: append([]byte(nil), p[:n]...)}
			m.segs = append(m.segs, nil)
			copy(m.segs[i+1:], m.segs[i:])
			m.segs[i] = seg
			i++
		}
		m.coalesce(i - 1)

		addr += uint32(n)
		p = p[n:]
	}
}

// coalesce merges segment i into segment i+1 if they became contiguous.
func (m *Image) coalesce(i int) {
	if i+1 >= len(m.segs) {
		return
	}
	if m.segs[i].end() != uint64(m.segs[i+1].addr) {
		return
	}
	m.segs[i].data = append(m.segs[i].data, m.segs[i+1].data...)
	m.segs = append(m.segs[:i+1], m.segs[i+2:]...)
}

// firstGap returns the first uncovered address in [addr, addr+n), if any.
func (m *Image) firstGap(addr uint32, n int) (uint32, bool) {
	for n > 0 {
		i := m.find(addr)
		if i >= len(m.segs) || m.segs[i].addr > addr {
			return addr, true
		}
		avail := m.segs[i].end() - uint64(addr)
		if uint64(n) <= avail {
			return 0, false
		}
		addr += uint32(avail)
		n -= int(avail)
	}
	return 0, false
}

// Covered reports whether every address in [addr, addr+n) has been written.
func (m *Image) Covered(addr uint32, n int) bool {
	_, gap := m.firstGap(addr, n)
	return !gap
}

// ReadAt fills p with the bytes at addr. Fails with a GapError naming the
// first uncovered address if the range is not fully covered.
func (m *Image) ReadAt(p []byte, addr uint32) error {
	if gapAddr, gap := m.firstGap(addr, len(p)); gap {
		return &GapError{Address: gapAddr}
	}
	for len(p) > 0 {
		seg := m.segs[m.find(addr)]
		off := addr - seg.addr
		n := copy(p, seg.data[off:])
		addr += uint32(n)
		p = p[n:]
	}
	return nil
}

// WriteAt overwrites existing coverage with p at addr. Unlike Set it must
// not extend the image's written range: patching a field that the source
// image does not contain is an error, not a silent extension.
func (m *Image) WriteAt(p []byte, addr uint32) error {
	if gapAddr, gap := m.firstGap(addr, len(p)); gap {
		return &GapError{Address: gapAddr}
	}
	for len(p) > 0 {
		seg := m.segs[m.find(addr)]
		off := addr - seg.addr
		n := copy(seg.data[off:], p)
		addr += uint32(n)
		p = p[n:]
	}
	return nil
}

// Walk calls fn for each maximal covered or uncovered run in [addr, addr+n),
// in address order. For uncovered runs data is nil and length gives the run
// size; otherwise len(data) == length. fn must not retain data past the call.
func (m *Image) Walk(addr uint32, n int, fn func(addr uint32, length int, data []byte) error) error {
	for n > 0 {
		i := m.find(addr)
		if i >= len(m.segs) || m.segs[i].addr > addr {
			// Gap run, up to the next segment (if any).
			run := n
			if i < len(m.segs) {
				if gap := m.segs[i].addr - addr; uint64(run) > uint64(gap) {
					run = int(gap)
				}
			}
			if err := fn(addr, run, nil); err != nil {
				return err
			}
			addr += uint32(run)
			n -= run
			continue
		}

		seg := m.segs[i]
		off := addr - seg.addr
		run := len(seg.data) - int(off)
		if run > n {
			run = n
		}
		if err := fn(addr, run, seg.data[off:int(off)+run]); err != nil {
			return err
		}
		addr += uint32(run)
		n -= run
	}
	return nil
}

// Extent returns the lowest and one-past-highest covered addresses.
// ok is false for an empty image.
func (m *Image) Extent() (lo uint32, hi uint64, ok bool) {
	if len(m.segs) == 0 {
		return 0, 0, false
	}
	return m.segs[0].addr, m.segs[len(m.segs)-1].end(), true
}
