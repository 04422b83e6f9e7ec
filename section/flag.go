package section

import (
	"fmt"

	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
)

// Flag is the packed flag field of the file header.
//
// Bits 0-3 hold the payload compression code. Bits 4-15 are reserved and
// must be zero.
type Flag uint16

var validCompressions = map[format.CompressionType]struct{}{
	format.CompressionNone: {},
	format.CompressionZstd: {},
	format.CompressionS2:   {},
	format.CompressionLZ4:  {},
}

// NewFlag creates a flag for an uncompressed payload.
func NewFlag() Flag {
	return Flag(format.CompressionNone)
}

// Compression returns the payload compression from bits 0-3.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType(f & CompressionMask)
}

// SetCompression sets the payload compression in bits 0-3.
func (f *Flag) SetCompression(compression format.CompressionType) {
	*f &^= CompressionMask
	*f |= Flag(compression) & CompressionMask
}

// Validate checks the compression code and the reserved bits.
func (f Flag) Validate() error {
	if f&ReservedFlagsMask != 0 {
		return fmt.Errorf("%w: reserved bits 0x%04x set", errs.ErrInvalidHeaderFlags, uint16(f&ReservedFlagsMask))
	}
	if _, ok := validCompressions[f.Compression()]; !ok {
		return fmt.Errorf("%w: compression code %d", errs.ErrInvalidHeaderFlags, uint8(f.Compression()))
	}

	return nil
}
