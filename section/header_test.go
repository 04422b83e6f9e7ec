package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rjhudspith/urfit/endian"
	"github.com/rjhudspith/urfit/errs"
	"github.com/rjhudspith/urfit/format"
)

func TestNewHeader(t *testing.T) {
	header := NewHeader(nil)

	require.Equal(t, endian.GetBigEndianEngine(), header.Engine)
	require.Equal(t, format.CompressionNone, header.Flag.Compression())
	require.Zero(t, header.Count)
}

func TestHeader_RoundTrip(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetBigEndianEngine(), endian.GetLittleEndianEngine()} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			original := NewHeader(engine)
			original.Flag.SetCompression(format.CompressionLZ4)
			original.Count = 12
			original.StoredLength = 700
			original.RawLength = 1536

			data := original.Bytes()
			require.Len(t, data, HeaderSize)

			parsed, err := ParseHeader(data)
			require.NoError(t, err)
			require.Equal(t, engine, parsed.Engine)
			require.Equal(t, format.CompressionLZ4, parsed.Flag.Compression())
			require.Equal(t, original.Count, parsed.Count)
			require.Equal(t, original.StoredLength, parsed.StoredLength)
			require.Equal(t, original.RawLength, parsed.RawLength)
		})
	}
}

func TestHeader_BigEndianLayout(t *testing.T) {
	h := NewHeader(endian.GetBigEndianEngine())
	h.Count = 2

	data := h.Bytes()
	require.Equal(t, []byte{0x55, 0x52, 0x46, 0x31}, data[0:4])
	require.Equal(t, []byte{0x00, 0x01}, data[4:6])
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x02}, data[8:12])
}

func TestHeader_ParseErrors(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		_, err := ParseHeader([]byte{1, 2, 3})
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
		require.ErrorIs(t, err, errs.ErrIOFailure)

		h := &Header{}
		require.ErrorIs(t, h.Parse(make([]byte, HeaderSize+1)), errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic", func(t *testing.T) {
		_, err := ParseHeader(make([]byte, HeaderSize))
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("unknown compression", func(t *testing.T) {
		h := NewHeader(nil)
		h.Flag = Flag(0x0009)
		_, err := ParseHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("reserved bits", func(t *testing.T) {
		h := NewHeader(nil)
		h.Flag |= 0x0100
		_, err := ParseHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})
}

func TestFlag_SetCompression(t *testing.T) {
	f := NewFlag()
	require.NoError(t, f.Validate())

	for _, c := range []format.CompressionType{
		format.CompressionZstd, format.CompressionS2, format.CompressionLZ4, format.CompressionNone,
	} {
		f.SetCompression(c)
		require.Equal(t, c, f.Compression())
		require.NoError(t, f.Validate())
	}

	f = 0
	require.ErrorIs(t, f.Validate(), errs.ErrInvalidHeaderFlags)
}

func TestRecordSize(t *testing.T) {
	require.Equal(t, 16, RecordSize(0))
	require.Equal(t, 8+8*17, RecordSize(16))
}
