package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor encodes with the "better" S2 mode.
type S2Compressor struct{}

var (
	_ Codec             = (*S2Compressor)(nil)
	_ SizedDecompressor = (*S2Compressor)(nil)
)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// DecompressSized checks the length recorded in the S2 block against the
// expected raw length before decoding into a buffer of exactly that size.
func (c S2Compressor) DecompressSized(data []byte, size int) ([]byte, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("s2 block holds %d bytes, header says %d", n, size)
	}

	return s2.Decode(make([]byte, size), data)
}
