package blob

import (
	"fmt"

	"github.com/rjhudspith/urfit/compress"
	"github.com/rjhudspith/urfit/encoding"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/hash"
	"github.com/rjhudspith/urfit/internal/options"
	"github.com/rjhudspith/urfit/resample"
	"github.com/rjhudspith/urfit/section"
)

// Encoder writes distributions into a single distribution file.
//
// Note: The Encoder is NOT thread-safe and NOT reusable. After calling Finish,
// a new encoder must be created for further encoding.
type Encoder struct {
	*EncoderConfig
	records *encoding.RecordEncoder
	stats   compress.Stats
}

// NewEncoder creates an encoder for a big-endian, uncompressed file unless
// options say otherwise.
//
// Returns:
//   - *Encoder: New encoder ready for Write calls
//   - error: The first option error
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{
		EncoderConfig: cfg,
		records:       encoding.NewRecordEncoder(cfg.engine),
	}, nil
}

// Write appends one distribution record.
func (e *Encoder) Write(d *resample.Distribution) error {
	if e.records == nil {
		return errFinished
	}

	return e.records.Write(d)
}

// WriteSlice appends the records of ds in order.
func (e *Encoder) WriteSlice(ds []*resample.Distribution) error {
	if e.records == nil {
		return errFinished
	}

	return e.records.WriteSlice(ds)
}

// Len returns the number of records written so far.
func (e *Encoder) Len() int {
	if e.records == nil {
		return 0
	}

	return e.records.Len()
}

// Stats returns the compression statistics of the finished payload.
// It is the zero value before Finish.
func (e *Encoder) Stats() compress.Stats {
	return e.stats
}

// Finish compresses the payload and assembles the complete file: header,
// stored payload and the xxHash64 checksum of both.
//
// The pooled record buffer is released whether or not Finish succeeds.
//
// Returns:
//   - []byte: The encoded file
//   - error: errs.ErrTooManyRecords when the count or a payload length
//     overflows a uint32, or a compression error
func (e *Encoder) Finish() ([]byte, error) {
	if e.records == nil {
		return nil, errFinished
	}
	defer func() {
		e.records.Finish()
		e.records = nil
	}()

	raw := e.records.Bytes()
	if uint64(len(raw)) > section.MaxPayloadLength {
		return nil, fmt.Errorf("%w: raw payload of %d bytes", errs.ErrTooManyRecords, len(raw))
	}

	stored, err := e.codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	if uint64(len(stored)) > section.MaxPayloadLength {
		return nil, fmt.Errorf("%w: stored payload of %d bytes", errs.ErrTooManyRecords, len(stored))
	}

	header := e.Header()
	header.Count = uint32(e.records.Len())    //nolint: gosec
	header.RawLength = uint32(len(raw))       //nolint: gosec
	header.StoredLength = uint32(len(stored)) //nolint: gosec
	headerBytes := header.Bytes()

	file := make([]byte, section.HeaderSize+len(stored)+section.ChecksumSize)
	offset := copy(file, headerBytes)
	offset += copy(file[offset:], stored)
	e.engine.PutUint64(file[offset:], hash.Checksum(headerBytes, stored))

	e.stats = compress.Stats{
		Algorithm:      header.Flag.Compression(),
		OriginalSize:   int64(len(raw)),
		CompressedSize: int64(len(stored)),
	}

	return file, nil
}

// Encode encodes ds into a complete distribution file.
func Encode(ds []*resample.Distribution, opts ...EncoderOption) ([]byte, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	if err := enc.WriteSlice(ds); err != nil {
		_, _ = enc.Finish()
		return nil, err
	}

	return enc.Finish()
}
