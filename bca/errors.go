package bca

import (
	"errors"
	"fmt"
)

// ErrChecksumDisabled indicates a BCA whose crcStartAddress or crcByteCount
// is 0xFFFFFFFF: the bootloader will not check a CRC, so there is nothing
// to patch.
var ErrChecksumDisabled = errors.New("bca: CRC checking is disabled in the BCA")

// KeyMismatchError indicates that the bytes at the BCA base address do not
// carry the "kcfg" tag. Almost always a wrong base address.
type KeyMismatchError struct {
	Base uint32
	Got  uint32
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("no BCA tag at 0x%08X: got 0x%08X, expected 0x%08X (\"kcfg\")",
		e.Base, e.Got, Tag)
}

// RangeNotCoveredError indicates that the BCA header, the CRC field or the
// checksum scope reaches into addresses the source image never defines.
type RangeNotCoveredError struct {
	Address uint32 // first uncovered address
	What    string // which range was being read or written
}

func (e *RangeNotCoveredError) Error() string {
	return fmt.Sprintf("%s not covered by image at 0x%08X", e.What, e.Address)
}
