// Package bincodec reads and writes primitive values and strings on binary
// streams: little-endian fixed-size numbers, 7-bit compressed integers, and
// strings in four layouts (compressed, length-prefixed, fixed-width and
// null-terminated) under a selectable text encoding.
//
// The package-level Read*/Write* functions are stateless and consume or
// produce exactly the bytes of one value. Reader and Writer wrap a stream
// with buffering and a sticky error for decoding many fields at once.
package bincodec

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their binary size.
type Sizer interface {
	// Size returns the size of the type in bytes when binary encoded.
	Size() int
}

// Marshaler defines the core methods for encoding an object into a byte stream.
type Marshaler interface {
	encoding.BinaryMarshaler // Method: MarshalBinary() ([]byte, error)
	io.WriterTo              // Method: WriteTo(writer io.Writer) (int64, error)

	// MarshalTo encodes the object into a pre-allocated buffer, returning
	// io.ErrShortBuffer if the buffer is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler defines the core methods for decoding a byte stream into an object.
type Unmarshaler interface {
	encoding.BinaryUnmarshaler // Method: UnmarshalBinary(data []byte) error
	io.ReaderFrom              // Method: ReadFrom(r io.Reader) (int64, error)
}

// Codec aggregates all binary serialization and deserialization interfaces.
// Value, the string field types and Record implement it.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}
