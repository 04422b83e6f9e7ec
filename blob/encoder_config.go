package blob

import (
	"fmt"

	"github.com/rjhudspith/urfit/compress"
	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/internal/options"
	"github.com/rjhudspith/urfit/section"
)

// EncoderConfig holds the header template and payload codec of an Encoder.
type EncoderConfig struct {
	header *section.Header
	codec  compress.Codec
	engine endian.EndianEngine
}

// newEncoderConfig creates a configuration for big-endian, uncompressed files.
func newEncoderConfig() *EncoderConfig {
	engine := endian.GetBigEndianEngine()
	codec, _ := compress.GetCodec(format.CompressionNone)

	return &EncoderConfig{
		header: section.NewHeader(engine),
		codec:  codec,
		engine: engine,
	}
}

// Header returns a copy of the header template.
func (c *EncoderConfig) Header() section.Header {
	return *c.header
}

// Compression returns the payload compression.
func (c *EncoderConfig) Compression() format.CompressionType {
	return c.header.Flag.Compression()
}

// Engine returns the byte order used for the header and the records.
func (c *EncoderConfig) Engine() endian.EndianEngine {
	return c.engine
}

func (c *EncoderConfig) setEngine(engine endian.EndianEngine) {
	c.engine = engine
	c.header.Engine = engine
}

func (c *EncoderConfig) setCompression(compression format.CompressionType) error {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidHeaderFlags, err)
	}

	c.codec = codec
	c.header.Flag.SetCompression(compression)

	return nil
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithLittleEndian writes the file in little-endian byte order.
//
// Readers recognise little-endian files from the byte-swapped magic number.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setEngine(endian.GetLittleEndianEngine())
	})
}

// WithBigEndian writes the file in the canonical big-endian byte order. This is the default.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setEngine(endian.GetBigEndianEngine())
	})
}

// WithCompression selects the payload codec.
//
// Returns an option that fails with errs.ErrInvalidHeaderFlags for unknown codecs.
func WithCompression(compression format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setCompression(compression)
	})
}
