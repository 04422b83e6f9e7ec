// Package endian provides the byte-order engines of the urfit file format.
//
// Distribution files are written big-endian by default. Files written in
// little-endian order, for example by tools that dump host memory directly,
// are recognised by their byte-swapped magic number, so readers never need
// to be told the order.
//
// # Basic Usage
//
//	engine, ok := endian.Detect(data[:4], section.MagicNumber)
//	if !ok {
//	    return errs.ErrInvalidMagicNumber
//	}
//	count := engine.Uint32(data[8:12])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256; a big-endian host stores the 0x01 byte first
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, the canonical file order.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEngine returns the engine matching the host byte order.
func GetNativeEngine() EndianEngine {
	if IsNativeLittleEndian() {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// Name returns "big" or "little" for the engines of this package.
func Name(engine EndianEngine) string {
	if engine == EndianEngine(binary.LittleEndian) {
		return "little"
	}

	return "big"
}

// Detect returns the engine in which the first four bytes of data read as
// magic. It reports false when neither order matches or data is short.
func Detect(data []byte, magic uint32) (EndianEngine, bool) {
	if len(data) < 4 {
		return nil, false
	}

	switch {
	case binary.BigEndian.Uint32(data) == magic:
		return binary.BigEndian, true
	case binary.LittleEndian.Uint32(data) == magic:
		return binary.LittleEndian, true
	default:
		return nil, false
	}
}
