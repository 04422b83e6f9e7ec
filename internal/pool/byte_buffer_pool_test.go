package pool

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("URF1"))
	n, err := bb.Write([]byte{0x00, 0x01})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 6, bb.Len())
	require.Equal(t, []byte{'U', 'R', 'F', '1', 0x00, 0x01}, bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 8)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(32)
		require.Equal(t, 64, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.MustWrite([]byte{1, 2, 3, 4})
		bb.Grow(8)
		require.GreaterOrEqual(t, cap(bb.B), 4+FileBufferDefaultSize)
		require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
	})

	t.Run("large request", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(FileBufferDefaultSize * 3)
		require.GreaterOrEqual(t, cap(bb.B), FileBufferDefaultSize*3)
	})
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(2)
	bb.ExtendOrGrow(24)
	require.Equal(t, 24, bb.Len())

	copy(bb.Slice(0, 4), []byte("URF1"))
	require.Equal(t, []byte("URF1"), bb.B[:4])

	require.Panics(t, func() { bb.Slice(4, 2) })
}

func TestByteBufferPool(t *testing.T) {
	t.Run("reset on put", func(t *testing.T) {
		bb := GetFileBuffer()
		bb.MustWrite([]byte("data"))
		PutFileBuffer(bb)

		again := GetFileBuffer()
		defer PutFileBuffer(again)
		require.Equal(t, 0, again.Len())
	})

	t.Run("nil put", func(t *testing.T) {
		require.NotPanics(t, func() { PutFileBuffer(nil) })
	})

	t.Run("drops oversized buffers", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		bb := p.Get()
		bb.Grow(1024)
		p.Put(bb)

		next := p.Get()
		require.LessOrEqual(t, cap(next.B), 32)
	})
}
