// Package compress provides the payload codecs of urfit distribution files.
//
// A distribution file stores its records as one payload of big-endian
// float64 samples. The payload may be compressed as a whole with one of the
// codecs below; the codec is recorded in the file header flags.
//
//   - None: the payload is stored as is
//   - Zstd: best ratio, useful for archived bootstrap ensembles
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(payload)
//
// # Zstd Implementations
//
// With cgo enabled the Zstd codec is backed by valyala/gozstd. Without cgo
// it uses the pure Go klauspost/compress/zstd with pooled encoders and
// decoders. Both produce standard Zstandard frames and read each other's
// output.
//
// # Sized Decompression
//
// The file header records the raw payload length. Codecs that cannot learn
// the output size from their own framing implement SizedDecompressor so the
// decoder can allocate the output once.
package compress
