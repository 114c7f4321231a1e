package bca

import (
	"encoding/binary"
	"errors"

	"github.com/anupcshan/srecpatch/memimg"
)

// BCA layout constants, fixed by the KBoot 2.0 bootloader.
const (
	// DefaultBase is where the bootloader looks for the BCA unless the
	// image relocates it.
	DefaultBase uint32 = 0x83C0

	// Tag is the magic marking a valid BCA: "kcfg" read little-endian.
	Tag uint32 = 0x6766636B

	// Undefined in crcStartAddress or crcByteCount disables CRC checking.
	Undefined uint32 = 0xFFFFFFFF

	// CRCFieldOffset is where crcExpectedValue lives within the BCA.
	CRCFieldOffset uint32 = 0xC

	// CRCFieldLen is the width of crcExpectedValue.
	CRCFieldLen = 4

	// headerLen covers the tag through crcExpectedValue.
	headerLen = 16
)

// BCA holds the fields of a Bootloader Configuration Area as read from an
// image. CRCExpected is the stored value, which is typically a placeholder
// until Engine.Patch replaces it.
type BCA struct {
	Base        uint32
	CRCStart    uint32
	CRCCount    uint32
	CRCExpected uint32
}

// CRCField returns the absolute address of the crcExpectedValue field.
func (b *BCA) CRCField() uint32 {
	return b.Base + CRCFieldOffset
}

// Read extracts and validates the BCA at base. Fails with
// RangeNotCoveredError if the image has no bytes there, KeyMismatchError if
// the tag is wrong, and ErrChecksumDisabled if the CRC fields are 0xFFFFFFFF.
func Read(img *memimg.Image, base uint32) (*BCA, error) {
	var buf [headerLen]byte
	if err := img.ReadAt(buf[:], base); err != nil {
		var gap *memimg.GapError
		if errors.As(err, &gap) {
			return nil, &RangeNotCoveredError{Address: gap.Address, What: "BCA header"}
		}
		return nil, err
	}

	b := &BCA{
		Base:        base,
		CRCStart:    binary.LittleEndian.Uint32(buf[0x4:]),
		CRCCount:    binary.LittleEndian.Uint32(buf[0x8:]),
		CRCExpected: binary.LittleEndian.Uint32(buf[0xC:]),
	}

	if tag := binary.LittleEndian.Uint32(buf[0x0:]); tag != Tag {
		return nil, &KeyMismatchError{Base: base, Got: tag}
	}
	if b.CRCStart == Undefined || b.CRCCount == Undefined {
		return nil, ErrChecksumDisabled
	}

	return b, nil
}
