package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
	"github.com/rjhudspith/urfit/internal/pool"
	"github.com/rjhudspith/urfit/resample"
	"github.com/rjhudspith/urfit/section"
)

// RecordEncoder appends distribution records to a pooled buffer.
type RecordEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

// NewRecordEncoder creates a record encoder using the specified endian engine.
//
// Parameters:
//   - engine: Endian engine for byte order (big-endian for canonical files)
//
// Returns:
//   - *RecordEncoder: A new encoder holding a pooled buffer until Finish
func NewRecordEncoder(engine endian.EndianEngine) *RecordEncoder {
	return &RecordEncoder{
		engine: engine,
		buf:    pool.GetFileBuffer(),
	}
}

// Write encodes one distribution. Its errors are not stored.
//
// Panics if Finish() has been called (nil buffer).
//
// Returns:
//   - error: errs.ErrInvalidScheme for an unknown scheme code, or
//     errs.ErrTooManyRecords when the sample count does not fit a uint32
func (e *RecordEncoder) Write(d *resample.Distribution) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if !d.Scheme.Valid() {
		return fmt.Errorf("%w: code %d", errs.ErrInvalidScheme, int32(d.Scheme))
	}
	n := len(d.Samples)
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: %d samples in one record", errs.ErrTooManyRecords, n)
	}

	size := section.RecordSize(n)
	start := e.buf.Len()
	e.buf.ExtendOrGrow(size)
	b := e.buf.Slice(start, start+size)

	e.engine.PutUint32(b[0:4], uint32(int32(d.Scheme)))
	e.engine.PutUint32(b[4:8], uint32(n))
	off := section.RecordHeaderSize
	for _, v := range d.Samples {
		e.engine.PutUint64(b[off:off+section.ValueSize], math.Float64bits(v))
		off += section.ValueSize
	}
	e.engine.PutUint64(b[off:off+section.ValueSize], math.Float64bits(d.Average))

	e.count++

	return nil
}

// WriteSlice encodes ds in order and stops at the first invalid record.
func (e *RecordEncoder) WriteSlice(ds []*resample.Distribution) error {
	for i, d := range ds {
		if err := e.Write(d); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return nil
}

// Bytes returns the encoded records. The slice references the internal
// buffer and is valid until the next Write or Finish.
func (e *RecordEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded records.
func (e *RecordEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *RecordEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *RecordEncoder) Finish() {
	if e.buf != nil {
		pool.PutFileBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// RecordDecoder decodes records produced by RecordEncoder.
//
// The decoder is immutable and stateless and can be shared between goroutines.
type RecordDecoder struct {
	engine endian.EndianEngine
}

// NewRecordDecoder creates a decoder for the given byte order.
func NewRecordDecoder(engine endian.EndianEngine) RecordDecoder {
	return RecordDecoder{engine: engine}
}

// Next decodes the record at the start of data and returns the remaining bytes.
//
// Returns:
//   - *resample.Distribution: the decoded distribution with errors recomputed
//   - []byte: data after the record
//   - error: errs.ErrTruncatedRecord or errs.ErrInvalidScheme
func (d RecordDecoder) Next(data []byte) (*resample.Distribution, []byte, error) {
	if len(data) < section.RecordHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes left for a record header", errs.ErrTruncatedRecord, len(data))
	}

	scheme := format.Scheme(int32(d.engine.Uint32(data[0:4])))
	if !scheme.Valid() {
		return nil, nil, fmt.Errorf("%w: code %d", errs.ErrInvalidScheme, int32(scheme))
	}

	n := uint64(d.engine.Uint32(data[4:8]))
	size := uint64(section.RecordHeaderSize) + (n+1)*section.ValueSize
	if uint64(len(data)) < size {
		return nil, nil, fmt.Errorf("%w: record of %d samples needs %d bytes, %d left",
			errs.ErrTruncatedRecord, n, size, len(data))
	}

	dist := resample.New(int(n), scheme)
	off := section.RecordHeaderSize
	for i := range dist.Samples {
		dist.Samples[i] = math.Float64frombits(d.engine.Uint64(data[off : off+section.ValueSize]))
		off += section.ValueSize
	}
	dist.Average = math.Float64frombits(d.engine.Uint64(data[off : off+section.ValueSize]))
	dist.ComputeErr()

	return dist, data[size:], nil
}

// All returns an iterator over the records of data. It stops after the
// first error, which it yields with a nil distribution.
func (d RecordDecoder) All(data []byte) iter.Seq2[*resample.Distribution, error] {
	return func(yield func(*resample.Distribution, error) bool) {
		rest := data
		for len(rest) > 0 {
			dist, next, err := d.Next(rest)
			if !yield(dist, err) || err != nil {
				return
			}
			rest = next
		}
	}
}

// Decode decodes exactly count records that fill data completely.
//
// Returns:
//   - []*resample.Distribution: the decoded records in order
//   - error: a record error, or errs.ErrPayloadLengthMismatch when data holds
//     fewer or more bytes than count records
func (d RecordDecoder) Decode(data []byte, count int) ([]*resample.Distribution, error) {
	// every record takes at least 16 bytes, which bounds a corrupt count
	if count < 0 || count > len(data)/section.RecordSize(0) {
		return nil, fmt.Errorf("%w: %d records cannot fit in %d bytes", errs.ErrPayloadLengthMismatch, count, len(data))
	}

	out := make([]*resample.Distribution, 0, count)
	rest := data
	for i := range count {
		dist, next, err := d.Next(rest)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, dist)
		rest = next
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d records", errs.ErrPayloadLengthMismatch, len(rest), count)
	}

	return out, nil
}
