// Package patch applies the bootloader CRC to an S-record firmware image:
// decode, assemble the sparse memory image, compute and store the BCA CRC,
// then re-emit only the lines the write actually touched.
package patch

import (
	"bytes"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"

	"github.com/anupcshan/srecpatch/bca"
	"github.com/anupcshan/srecpatch/memimg"
	"github.com/anupcshan/srecpatch/srec"
)

// Patch computes the CRC declared by the image's Bootloader Configuration
// Area and returns the input with the crcExpectedValue field updated. The
// transform is pure and all-or-nothing: any failure returns a nil output,
// and every line not overlapping the CRC field is reproduced byte-for-byte.
func Patch(input []byte, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := srec.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, errors.Wrap(err, "decoding input")
	}

	img := memimg.New()
	for _, l := range f.Lines {
		if l.Rec != nil && l.Rec.Type.IsData() {
			img.Set(l.Rec.Address, l.Rec.Data)
		}
	}

	eng := &bca.Engine{Fill: cfg.fill}
	info, sum, err := eng.Patch(img, cfg.base)
	if err != nil {
		return nil, errors.Wrapf(err, "patching BCA at 0x%08X", cfg.base)
	}

	logf(cfg, "BCA at 0x%08X: crcStart=0x%08X crcCount=0x%X stored=0x%08X computed=0x%08X",
		info.Base, info.CRCStart, info.CRCCount, info.CRCExpected, sum)

	if err := rewriteDirty(f, img, info.CRCField(), cfg); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(input))
	if _, err := f.WriteTo(&out); err != nil {
		return nil, errors.Wrap(err, "encoding output")
	}
	return out.Bytes(), nil
}

// rewriteDirty re-encodes every data record whose byte range overlaps the
// patched CRC field, pulling the new payload from the image. All other
// lines keep their original text.
func rewriteDirty(f *srec.File, img *memimg.Image, field uint32, cfg config) error {
	fieldEnd := uint64(field) + bca.CRCFieldLen

	dirty := bitset.New(uint(len(f.Lines)))
	for i, l := range f.Lines {
		if l.Rec == nil || !l.Rec.Type.IsData() || len(l.Rec.Data) == 0 {
			continue
		}
		start := uint64(l.Rec.Address)
		end := start + uint64(len(l.Rec.Data))
		if start < fieldEnd && end > uint64(field) {
			dirty.Set(uint(i))
		}
	}

	for i, ok := dirty.NextSet(0); ok; i, ok = dirty.NextSet(i + 1) {
		l := f.Lines[i]
		data := make([]byte, len(l.Rec.Data))
		if err := img.ReadAt(data, l.Rec.Address); err != nil {
			return errors.Wrapf(err, "rereading line %d", l.Rec.LineNo)
		}
		if err := l.Reencode(data); err != nil {
			return errors.Wrap(err, "reencoding patched line")
		}
		logf(cfg, "rewrote line %d (S%c record at 0x%08X)", l.Rec.LineNo, byte(l.Rec.Type), l.Rec.Address)
	}

	return nil
}

func logf(cfg config, format string, args ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, args...)
	}
}
