package srec

// Type identifies an S-record type by its digit character.
type Type byte

// The record types defined by the format. S4 is reserved and rejected.
const (
	TypeHeader  Type = '0' // S0: header, 16-bit address (normally zero)
	TypeData16  Type = '1' // S1: data, 16-bit address
	TypeData24  Type = '2' // S2: data, 24-bit address
	TypeData32  Type = '3' // S3: data, 32-bit address
	TypeCount16 Type = '5' // S5: 16-bit record count
	TypeCount24 Type = '6' // S6: 24-bit record count
	TypeStart32 Type = '7' // S7: 32-bit start address
	TypeStart24 Type = '8' // S8: 24-bit start address
	TypeStart16 Type = '9' // S9: 16-bit start address
)

// AddrBytes returns the width of the record's address field in bytes,
// or 0 for an unsupported type.
func (t Type) AddrBytes() int {
	switch t {
	case TypeHeader, TypeData16, TypeCount16, TypeStart16:
		return 2
	case TypeData24, TypeCount24, TypeStart24:
		return 3
	case TypeData32, TypeStart32:
		return 4
	default:
		return 0
	}
}

// IsData reports whether the record carries image bytes (S1/S2/S3).
// Header, count and start-address records are structural and are never
// merged into the memory image.
func (t Type) IsData() bool {
	return t == TypeData16 || t == TypeData24 || t == TypeData32
}

// Record is one decoded S-record.
type Record struct {
	// Type is the record type (S-digit).
	Type Type

	// Address is the record's address field. Its meaningful width depends
	// on Type; for data records it is the load address of Data.
	Address uint32

	// Data is the record payload (empty for most structural records).
	Data []byte

	// Checksum is the stored per-line checksum, already verified against
	// the computed value during decoding.
	Checksum byte

	// LineNo is the 1-based source line number, for error context.
	LineNo int
}

// checksum computes the S-record line checksum over the count, address and
// data bytes: one's complement of the low byte of their sum.
func checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return ^sum
}
