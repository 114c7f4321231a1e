// Package srec decodes and encodes Motorola S-record files.
//
// # S-Record Format
//
// Each line is an ASCII record of the form
//
//	S<type><count><address><data><checksum>
//
// where every field after the type digit is hex-encoded, two characters per
// byte. The count covers the address, data and checksum bytes. The address
// width depends on the record type: 16 bits for S0/S1/S5/S9, 24 bits for
// S2/S6/S8, 32 bits for S3/S7. The checksum is the one's complement of the
// least significant byte of the sum of the count, address and data bytes.
//
// Example:
//
//	S1070010DEADBEEFB0
//	  S1   = data record, 16-bit address
//	  07   = 7 bytes follow (2 address + 4 data + 1 checksum)
//	  0010 = load address
//	  DEADBEEF = data
//	  B0   = checksum
//
// # Usage
//
// Decode keeps the raw text of every line, so a file can be reproduced
// byte-for-byte:
//
//	f, err := srec.Decode(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = f.WriteTo(w) // identical to the input
//
// Individual lines can be rewritten in place after mutating the underlying
// image; Reencode preserves the source line's hex case and terminator and
// recomputes the line checksum.
//
// Decoding is strict: a line whose length does not match its count field,
// whose fields are not valid hex, or whose stored checksum does not match the
// computed one fails with a MalformedRecordError carrying the line number.
package srec
