package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestIsNativeEndiannessInverse(t *testing.T) {
	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())
}

func TestGetNativeEngine(t *testing.T) {
	if IsNativeLittleEndian() {
		require.Equal(t, GetLittleEndianEngine(), GetNativeEngine())
		return
	}
	require.Equal(t, GetBigEndianEngine(), GetNativeEngine())
}

func TestName(t *testing.T) {
	require.Equal(t, "little", Name(GetLittleEndianEngine()))
	require.Equal(t, "big", Name(GetBigEndianEngine()))
}

func TestDetect(t *testing.T) {
	const magic = 0x55524631

	tests := []struct {
		name   string
		data   []byte
		engine EndianEngine
		ok     bool
	}{
		{"big endian", []byte{0x55, 0x52, 0x46, 0x31}, binary.BigEndian, true},
		{"little endian", []byte{0x31, 0x46, 0x52, 0x55}, binary.LittleEndian, true},
		{"trailing bytes ignored", []byte{0x55, 0x52, 0x46, 0x31, 0xFF}, binary.BigEndian, true},
		{"wrong magic", []byte{0x00, 0x52, 0x46, 0x31}, nil, false},
		{"short", []byte{0x55, 0x52}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, ok := Detect(tt.data, magic)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.engine, engine)
		})
	}
}

func TestEngines_RoundTrip(t *testing.T) {
	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		buf := engine.AppendUint64(nil, 0x0102030405060708)
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))

		b := make([]byte, 4)
		engine.PutUint32(b, 0xDEADBEEF)
		require.Equal(t, uint32(0xDEADBEEF), engine.Uint32(b))
	}

	require.Equal(t, []byte{1, 2}, GetBigEndianEngine().AppendUint16(nil, 0x0102))
	require.Equal(t, []byte{2, 1}, GetLittleEndianEngine().AppendUint16(nil, 0x0102))
}
