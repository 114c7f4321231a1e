package bca

import "github.com/snksoft/crc"

// crcParams is the CRC the KBoot bootloader runs over the application image:
// CRC-32/MPEG-2. Polynomial 0x04C11DB7, initial value 0xFFFFFFFF, no input or
// output reflection, no final xor. Check value for "123456789" is 0x0376E6E7.
//
// Do not touch: these parameters are fixed by the bootloader and validated
// against it in crc_test.go.
var crcParams = &crc.Parameters{
	Width:      32,
	Polynomial: 0x04C11DB7,
	Init:       0xFFFFFFFF,
	ReflectIn:  false,
	ReflectOut: false,
	FinalXor:   0x0,
}

// CRC computes the bootloader's image CRC over p in one shot.
func CRC(p []byte) uint32 {
	return uint32(crc.CalculateCRC(crcParams, p))
}

// newCRC returns a streaming hash with the bootloader's parameters.
func newCRC() *crc.Hash {
	return crc.NewHash(crcParams)
}
