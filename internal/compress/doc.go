// Package compress frames byte blocks with optional LZ4 or ZSTD compression.
//
// Block format (little endian):
//
//	[Type uint8][UncompressedSize uint32][CompressedSize uint32][Data...]
//
// CompressedSize == 0 means the data is stored as is, either because Type is
// None or because compression did not pay off.
package compress
