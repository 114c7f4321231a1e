// Package bca locates the Bootloader Configuration Area inside a firmware
// image and maintains the CRC the KBoot 2.0 bootloader verifies before
// jumping to the application.
//
// The BCA is a fixed-layout region the bootloader reads at a known address
// (0x83C0 unless relocated). The fields this package cares about:
//
//	+0x0  u32 LE  tag, "kcfg" (0x6766636B)
//	+0x4  u32 LE  crcStartAddress
//	+0x8  u32 LE  crcByteCount
//	+0xC  u32 LE  crcExpectedValue
//
// The bootloader computes CRC-32 over [crcStartAddress,
// crcStartAddress+crcByteCount) and compares the result against
// crcExpectedValue; Engine.Patch performs the same computation and stores
// the result. When the crcExpectedValue field itself falls inside that
// range, its four bytes are skipped, exactly as the bootloader skips them
// at verification time. A value of 0xFFFFFFFF in crcStartAddress or
// crcByteCount means CRC checking is disabled and there is nothing to patch.
//
// The CRC parameters are a compatibility contract with the bootloader: any
// deviation produces an image the device silently refuses to boot. They are
// pinned in one place (crc.go) and tested against the published check value.
package bca
