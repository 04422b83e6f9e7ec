package section

import "math"

const (
	// MagicNumber is "URF1" read as a big-endian uint32. A file whose first
	// four bytes read as MagicNumber in little-endian order is little-endian.
	MagicNumber uint32 = 0x55524631

	// Flag bit masks
	CompressionMask   = 0x000F // Mask for payload compression code (bits 0-3)
	ReservedFlagsMask = 0xFFF0 // Reserved bits, must be zero (bits 4-15)
)

// offset and section sizes in the distribution file
const (
	HeaderSize       = 24 // fixed header size in bytes
	RecordHeaderSize = 8  // scheme code and sample count of one record
	ChecksumSize     = 8  // trailing xxHash64 of header and stored payload
	ValueSize        = 8  // one float64 sample or average

	MaxPayloadLength = math.MaxUint32 // stored and raw payload lengths are uint32
)

// RecordSize returns the encoded size of a record holding nsamples samples.
func RecordSize(nsamples int) int {
	return RecordHeaderSize + (nsamples+1)*ValueSize
}
