package srec

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTo emits every line's raw text verbatim. A file that was decoded and
// never rewritten reproduces the input byte-for-byte.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, l := range f.Lines {
		written, err := io.WriteString(w, l.Raw)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Format encodes a record as an uppercase S-record line (no terminator),
// computing the count and checksum fields.
func Format(typ Type, addr uint32, data []byte) string {
	return formatRecord(typ, addr, data, false)
}

func formatRecord(typ Type, addr uint32, data []byte, lower bool) string {
	addrBytes := typ.AddrBytes()
	count := addrBytes + len(data) + 1

	b := make([]byte, 0, count)
	b = append(b, byte(count))
	for i := addrBytes - 1; i >= 0; i-- {
		b = append(b, byte(addr>>(8*i)))
	}
	b = append(b, data...)
	b = append(b, checksum(b))

	byteFormat := "%02X"
	if lower {
		byteFormat = "%02x"
	}
	var sb strings.Builder
	sb.Grow(2 + 2*count)
	sb.WriteByte('S')
	sb.WriteByte(byte(typ))
	for _, c := range b {
		fmt.Fprintf(&sb, byteFormat, c)
	}
	return sb.String()
}

// Reencode replaces the line's data payload and re-serializes the line,
// recomputing its checksum. The new payload must have the original length:
// patching never grows or shrinks a record. The source line's hex case and
// terminator are preserved.
func (l *Line) Reencode(data []byte) error {
	if l.Rec == nil {
		return fmt.Errorf("cannot reencode a blank line")
	}
	if len(data) != len(l.Rec.Data) {
		return fmt.Errorf("line %d: payload length changed from %d to %d",
			l.Rec.LineNo, len(l.Rec.Data), len(data))
	}

	text := strings.TrimRight(l.Raw, "\r\n")
	term := l.Raw[len(text):]
	lower := strings.ContainsAny(text, "abcdef")

	l.Rec.Data = make([]byte, len(data))
	copy(l.Rec.Data, data)

	encoded := formatRecord(l.Rec.Type, l.Rec.Address, l.Rec.Data, lower)
	sum, _ := strconv.ParseUint(encoded[len(encoded)-2:], 16, 8)
	l.Rec.Checksum = byte(sum)
	l.Raw = encoded + term

	return nil
}
