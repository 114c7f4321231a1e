package bca

import (
	"encoding/binary"
	"errors"

	"github.com/anupcshan/srecpatch/memimg"
)

// Engine computes the bootloader CRC over the scope a BCA declares and
// writes the result back into the image.
type Engine struct {
	// Fill, when non-nil, is substituted for addresses inside the checksum
	// scope that the image never defines, matching flash that is left
	// unprogrammed (srec_cat's -fill 0xff convention). When nil, a gap in
	// the scope is an error.
	Fill *byte
}

// Patch reads the BCA at base, computes the CRC over its declared scope and
// stores the value little-endian in the crcExpectedValue field. The field's
// own bytes are excluded from the computation when the scope spans them,
// which also makes patching idempotent. Returns the BCA as found in the
// source image (CRCExpected is the pre-patch value) and the computed CRC.
func (e *Engine) Patch(img *memimg.Image, base uint32) (*BCA, uint32, error) {
	b, err := Read(img, base)
	if err != nil {
		return nil, 0, err
	}

	sum, err := e.checksum(img, b)
	if err != nil {
		return nil, 0, err
	}

	var field [CRCFieldLen]byte
	binary.LittleEndian.PutUint32(field[:], sum)
	if err := img.WriteAt(field[:], b.CRCField()); err != nil {
		var gap *memimg.GapError
		if errors.As(err, &gap) {
			return nil, 0, &RangeNotCoveredError{Address: gap.Address, What: "CRC field"}
		}
		return nil, 0, err
	}

	return b, sum, nil
}

// checksum runs the scope bytes through the CRC, skipping the CRC field
// itself and filling gaps when configured to.
func (e *Engine) checksum(img *memimg.Image, b *BCA) (uint32, error) {
	h := newCRC()
	field := b.CRCField()

	update := func(addr uint32, length int, data []byte) error {
		if data == nil {
			if e.Fill == nil {
				return &RangeNotCoveredError{Address: addr, What: "checksum scope"}
			}
			fill := make([]byte, length)
			for i := range fill {
				fill[i] = *e.Fill
			}
			h.Update(fill)
			return nil
		}
		h.Update(data)
		return nil
	}

	walk := func(addr uint32, n int) error {
		if n <= 0 {
			return nil
		}
		return img.Walk(addr, n, update)
	}

	scopeEnd := uint64(b.CRCStart) + uint64(b.CRCCount)
	fieldEnd := uint64(field) + CRCFieldLen

	if uint64(field) >= scopeEnd || fieldEnd <= uint64(b.CRCStart) {
		// Field outside the scope: one contiguous run.
		if err := walk(b.CRCStart, int(b.CRCCount)); err != nil {
			return 0, err
		}
	} else {
		// Field inside the scope: elide its four bytes, the way the
		// bootloader does when it verifies.
		if err := walk(b.CRCStart, int(int64(field)-int64(b.CRCStart))); err != nil {
			return 0, err
		}
		if err := walk(uint32(fieldEnd), int(int64(scopeEnd)-int64(fieldEnd))); err != nil {
			return 0, err
		}
	}

	return uint32(h.CRC()), nil
}
