// Package section defines the binary layout of urfit distribution files.
//
// A distribution file holds an ordered list of resampled distributions:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (24 bytes, fixed)                                │
//	│  - Magic (4 bytes): byte order detection                │
//	│  - Flag (2 bytes): payload compression                  │
//	│  - Count, stored length, raw length (12 bytes)          │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload (stored length bytes, optionally compressed)    │
//	│  - Count records, back to back                          │
//	├─────────────────────────────────────────────────────────┤
//	│ Checksum (8 bytes): xxHash64 of header and payload      │
//	└─────────────────────────────────────────────────────────┘
//
// # Record Format
//
// Every record of the raw payload is bit-exact with the historical
// single-distribution layout:
//
//	Bytes      | Field    | Type          | Description
//	-----------|----------|---------------|---------------------------
//	0-3        | Scheme   | int32         | 0 raw, 1 jackknife, 3 bootstrap
//	4-7        | N        | uint32        | number of samples
//	8-(8N+7)   | Samples  | float64 × N   | resampled values
//	8N+8-8N+15 | Average  | float64       | central value
//
// Errors are not stored; readers recompute them from the samples.
//
// # Byte Order
//
// All integers and floats use the byte order of the file. Writers default
// to big-endian; readers accept either order by matching the magic number.
package section
