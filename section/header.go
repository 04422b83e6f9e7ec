package section

import (
	"fmt"

	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
)

// Header represents the fixed-size header at the start of a distribution file.
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|---------------------------------
//	0-3    | Magic        | uint32 | 0x55524631, selects byte order
//	4-5    | Flag         | uint16 | compression code, reserved bits
//	6-7    | reserved     | uint16 | zero
//	8-11   | Count        | uint32 | number of records
//	12-15  | StoredLength | uint32 | payload bytes as stored
//	16-19  | RawLength    | uint32 | payload bytes after decompression
//	20-23  | reserved     | uint32 | zero
type Header struct {
	Flag         Flag
	Count        uint32
	StoredLength uint32
	RawLength    uint32

	// Engine is the byte order of the whole file.
	Engine endian.EndianEngine
}

// NewHeader creates a header for an uncompressed file in the given byte
// order. A nil engine selects big-endian.
func NewHeader(engine endian.EndianEngine) *Header {
	if engine == nil {
		engine = endian.GetBigEndianEngine()
	}

	return &Header{
		Flag:   NewFlag(),
		Engine: engine,
	}
}

// Parse parses the header from a byte slice, detecting the byte order from
// the magic number.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 24 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: got %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	engine, ok := endian.Detect(data[0:4], MagicNumber)
	if !ok {
		return fmt.Errorf("%w: 0x%08x", errs.ErrInvalidMagicNumber, endian.GetBigEndianEngine().Uint32(data[0:4]))
	}

	h.Engine = engine
	h.Flag = Flag(engine.Uint16(data[4:6]))
	h.Count = engine.Uint32(data[8:12])
	h.StoredLength = engine.Uint32(data[12:16])
	h.RawLength = engine.Uint32(data[16:20])

	return h.Flag.Validate()
}

// Bytes serializes the header in its byte order.
func (h *Header) Bytes() []byte {
	engine := h.Engine
	if engine == nil {
		engine = endian.GetBigEndianEngine()
	}

	b := make([]byte, HeaderSize)
	engine.PutUint32(b[0:4], MagicNumber)
	engine.PutUint16(b[4:6], uint16(h.Flag))
	engine.PutUint32(b[8:12], h.Count)
	engine.PutUint32(b[12:16], h.StoredLength)
	engine.PutUint32(b[16:20], h.RawLength)

	return b
}

// ParseHeader parses a Header from the start of data.
//
// Parameters:
//   - data: Byte slice containing header (must be at least 24 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or flag validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
