// Package encoding encodes resampled distributions into the record layout
// of urfit distribution files.
//
// Records are written through an endian.EndianEngine so the same code
// serves big-endian files and little-endian files. The encoder appends to
// a pooled buffer; the decoder validates every record and recomputes the
// errors of the decoded distributions.
//
// Most users should use the blob package instead, which adds the header,
// compression and checksum.
//
//	enc := encoding.NewRecordEncoder(endian.GetBigEndianEngine())
//	defer enc.Finish()
//
//	if err := enc.WriteSlice(dists); err != nil {
//	    return err
//	}
//	payload := enc.Bytes()
//
//	dec := encoding.NewRecordDecoder(endian.GetBigEndianEngine())
//	dists, err := dec.Decode(payload, len(dists))
package encoding
