package srec

import "fmt"

// MalformedRecordError indicates a line that is not a valid S-record:
// bad hex, a length that does not match the count field, or a stored
// checksum that does not match the computed one.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed record: %s", e.Line, e.Reason)
}

// UnsupportedRecordTypeError indicates a record type outside S0-S9
// (or the reserved S4).
type UnsupportedRecordTypeError struct {
	Line int
	Type byte
}

func (e *UnsupportedRecordTypeError) Error() string {
	return fmt.Sprintf("line %d: unsupported record type S%c", e.Line, e.Type)
}
