package patch

import "github.com/anupcshan/srecpatch/bca"

// Logger receives diagnostic output when verbose reporting is enabled.
// *log.Logger satisfies it. Diagnostics never affect the output bytes.
type Logger interface {
	Printf(format string, args ...interface{})
}

type config struct {
	base   uint32
	fill   *byte
	logger Logger
}

func defaultConfig() config {
	return config{
		base: bca.DefaultBase,
	}
}

// Option configures a Patch call.
type Option func(*config)

// WithBCAAddress overrides the Bootloader Configuration Area base address.
// The default is 0x83C0, where the bootloader looks unless the image
// relocates it.
func WithBCAAddress(addr uint32) Option {
	return func(c *config) {
		c.base = addr
	}
}

// WithGapFill substitutes fill for unprogrammed addresses inside the
// checksum scope instead of failing on them. Flash tools conventionally use
// 0xFF, the erased-flash value.
func WithGapFill(fill byte) Option {
	return func(c *config) {
		f := fill
		c.fill = &f
	}
}

// WithLogger enables diagnostic reporting of the BCA fields, the computed
// CRC and the rewritten lines.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
