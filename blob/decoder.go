package blob

import (
	"errors"
	"fmt"
	"iter"

	"github.com/rjhudspith/urfit/compress"
	"github.com/rjhudspith/urfit/encoding"
	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/internal/hash"
	"github.com/rjhudspith/urfit/resample"
	"github.com/rjhudspith/urfit/section"
)

var errFinished = errors.New("encoder already finished")

// Decoder decodes a distribution file.
//
// NewDecoder validates the framing and the checksum eagerly. The payload is
// only decompressed when Decode or All is called.
//
// Note: The Decoder is read-only after construction and may be shared between goroutines.
type Decoder struct {
	header section.Header
	stored []byte
	sum    uint64
}

// NewDecoder creates a decoder for the given file contents.
//
// Parameters:
//   - data: Complete file contents, header through checksum
//
// Returns:
//   - *Decoder: Decoder over data (data is referenced, not copied)
//   - error: Header errors, errs.ErrPayloadLengthMismatch when the file size
//     disagrees with the header, or errs.ErrChecksumMismatch
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	want := uint64(section.HeaderSize) + uint64(header.StoredLength) + section.ChecksumSize
	if uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: file has %d bytes, header declares %d",
			errs.ErrPayloadLengthMismatch, len(data), want)
	}

	stored := data[section.HeaderSize : section.HeaderSize+int(header.StoredLength)]
	sum := header.Engine.Uint64(data[len(data)-section.ChecksumSize:])
	if got := hash.Checksum(data[:section.HeaderSize], stored); got != sum {
		return nil, fmt.Errorf("%w: stored 0x%016x, computed 0x%016x", errs.ErrChecksumMismatch, sum, got)
	}

	return &Decoder{
		header: header,
		stored: stored,
		sum:    sum,
	}, nil
}

// Header returns the parsed file header.
func (d *Decoder) Header() section.Header {
	return d.header
}

// Engine returns the byte order of the file.
func (d *Decoder) Engine() endian.EndianEngine {
	return d.header.Engine
}

// Checksum returns the verified xxHash64 trailer.
func (d *Decoder) Checksum() uint64 {
	return d.sum
}

// Len returns the number of records declared by the header.
func (d *Decoder) Len() int {
	return int(d.header.Count)
}

// Stats returns the compression statistics of the payload.
func (d *Decoder) Stats() compress.Stats {
	return compress.Stats{
		Algorithm:      d.header.Flag.Compression(),
		OriginalSize:   int64(d.header.RawLength),
		CompressedSize: int64(d.header.StoredLength),
	}
}

// payload decompresses the stored payload and checks its raw length.
func (d *Decoder) payload() ([]byte, error) {
	codec, err := compress.GetCodec(d.header.Flag.Compression())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeaderFlags, err)
	}

	raw, err := compress.Decompress(codec, d.stored, int(d.header.RawLength))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decompress payload: %w", errs.ErrIOFailure, err)
	}
	if len(raw) != int(d.header.RawLength) {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header declares %d",
			errs.ErrPayloadLengthMismatch, len(raw), d.header.RawLength)
	}

	return raw, nil
}

// Decode decompresses the payload and decodes all records, recomputing
// their errors.
//
// Returns:
//   - []*resample.Distribution: The records in file order
//   - error: Decompression errors, record errors, or errs.ErrPayloadLengthMismatch
//     when the payload does not hold exactly the declared record count
func (d *Decoder) Decode() ([]*resample.Distribution, error) {
	raw, err := d.payload()
	if err != nil {
		return nil, err
	}

	return encoding.NewRecordDecoder(d.header.Engine).Decode(raw, int(d.header.Count))
}

// All returns an iterator over the records of the file. A decompression or
// record error is yielded once with a nil distribution and ends the
// iteration.
func (d *Decoder) All() iter.Seq2[*resample.Distribution, error] {
	return func(yield func(*resample.Distribution, error) bool) {
		raw, err := d.payload()
		if err != nil {
			yield(nil, err)
			return
		}

		for dist, err := range encoding.NewRecordDecoder(d.header.Engine).All(raw) {
			if !yield(dist, err) || err != nil {
				return
			}
		}
	}
}

// Decode decodes a complete distribution file.
func Decode(data []byte) ([]*resample.Distribution, error) {
	dec, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}
