// Package blob reads and writes distribution files.
//
// A distribution file stores an ordered list of resampled distributions,
// typically the time slices of one correlator. The layout is described in
// package section; records are encoded by package encoding.
//
// # Encoding
//
//	enc, err := blob.NewEncoder(blob.WithCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	if err := enc.WriteSlice(corr); err != nil {
//	    return err
//	}
//	data, err := enc.Finish()
//
// Encode and WriteFile wrap the same steps for a whole slice.
//
// # Decoding
//
//	dec, err := blob.NewDecoder(data) // checks framing and checksum
//	if err != nil {
//	    return err
//	}
//	corr, err := dec.Decode()
//
// Decoded distributions have their errors recomputed from the samples.
// Every decoding failure wraps errs.ErrIOFailure.
//
// # Multiple files
//
// ReadFiles and ReadSet read several files in parallel. A Set keeps the
// records of each file under its path.
package blob
