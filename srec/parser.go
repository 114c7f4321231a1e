package srec

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// minLineLen is "S" + type digit + count byte in hex characters.
const minLineLen = 4

// Line is one source line: the raw text (terminator included) plus the
// decoded record, or a nil record for a blank line.
type Line struct {
	// Raw is the line exactly as read, including any trailing \n or \r\n.
	Raw string

	// Rec is the decoded record, nil for blank lines.
	Rec *Record
}

// File is a decoded S-record file. Lines preserves source order so that
// untouched lines can be reproduced verbatim.
type File struct {
	Lines []*Line
}

// Records returns the decoded records in source order, skipping blank lines.
func (f *File) Records() []*Record {
	recs := make([]*Record, 0, len(f.Lines))
	for _, l := range f.Lines {
		if l.Rec != nil {
			recs = append(recs, l.Rec)
		}
	}
	return recs
}

// Decode parses an S-record stream. Decoding is all-or-nothing: the first
// malformed line aborts with an error naming that line.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	f := &File{}
	lineNo := 0

	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			lineNo++
			line := &Line{Raw: raw}
			text := strings.TrimRight(raw, "\r\n")
			if text != "" {
				rec, perr := parseRecord(text, lineNo)
				if perr != nil {
					return nil, perr
				}
				line.Rec = rec
			}
			f.Lines = append(f.Lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
	}

	return f, nil
}

// parseRecord decodes a single trimmed, non-empty line.
func parseRecord(text string, lineNo int) (*Record, error) {
	if text[0] != 'S' {
		return nil, &MalformedRecordError{Line: lineNo, Reason: "missing 'S' record marker"}
	}
	if len(text) < minLineLen {
		return nil, &MalformedRecordError{Line: lineNo, Reason: "line too short"}
	}

	typ := Type(text[1])
	addrBytes := typ.AddrBytes()
	if addrBytes == 0 {
		return nil, &UnsupportedRecordTypeError{Line: lineNo, Type: text[1]}
	}

	if len(text)%2 != 0 {
		return nil, &MalformedRecordError{Line: lineNo, Reason: "odd number of hex characters"}
	}

	b, err := hex.DecodeString(text[2:])
	if err != nil {
		return nil, &MalformedRecordError{Line: lineNo, Reason: "invalid hex data"}
	}

	count := int(b[0])
	if len(b) != count+1 {
		return nil, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("length mismatch: count field says %d bytes, line has %d", count, len(b)-1),
		}
	}
	if count < addrBytes+1 {
		return nil, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("count %d too small for %d-byte address", count, addrBytes),
		}
	}

	stored := b[len(b)-1]
	if computed := checksum(b[:len(b)-1]); stored != computed {
		return nil, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("checksum mismatch: got 0x%02X, expected 0x%02X", stored, computed),
		}
	}

	var addr uint32
	for _, c := range b[1 : 1+addrBytes] {
		addr = addr<<8 | uint32(c)
	}

	data := b[1+addrBytes : len(b)-1]

	rec := &Record{
		Type:     typ,
		Address:  addr,
		Data:     make([]byte, len(data)),
		Checksum: stored,
		LineNo:   lineNo,
	}
	copy(rec.Data, data)

	return rec, nil
}
