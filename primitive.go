package bincodec

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
)

// maxPrealloc bounds the buffer ReadBytes allocates before any data arrives.
const maxPrealloc = 64 << 10

// Primitive is the set of fixed-size values the codec reads and writes
// verbatim. Platform-sized int, uint and uintptr are deliberately absent.
type Primitive interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~bool
}

// SizeOf returns the encoded size of T in bytes.
func SizeOf[T Primitive]() int {
	var v T
	return binary.Size(v)
}

// Write encodes v in the default byte order and returns the number of bytes written.
func Write[T Primitive](w io.Writer, v T) (int, error) {
	return WriteOrder(w, Order, v)
}

// WriteOrder encodes v in the given byte order.
func WriteOrder[T Primitive](w io.Writer, order binary.ByteOrder, v T) (int, error) {
	var buf [8]byte
	n, err := binary.Encode(buf[:], order, v)
	if err != nil {
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return writeFull(w, buf[:n])
}

// Read decodes a T in the default byte order.
// It consumes exactly SizeOf[T]() bytes or fails with ErrEndOfStream.
func Read[T Primitive](r io.Reader) (T, error) {
	return ReadOrder[T](r, Order)
}

// ReadOrder decodes a T in the given byte order.
func ReadOrder[T Primitive](r io.Reader, order binary.ByteOrder) (T, error) {
	var (
		v   T
		buf [8]byte
	)
	size := binary.Size(v)
	if size <= 0 || size > len(buf) {
		return v, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	if _, err := io.ReadFull(r, buf[:size]); err != nil {
		return v, endOfStream(err)
	}
	if _, err := binary.Decode(buf[:size], order, &v); err != nil {
		return *new(T), err
	}
	return v, nil
}

// WriteBytes writes data verbatim. An empty or nil slice writes nothing.
func WriteBytes(w io.Writer, data []byte) (int, error) {
	return writeFull(w, data)
}

// ReadBytes reads exactly count bytes. A zero count returns an empty,
// non-nil slice without touching the stream.
func ReadBytes(r io.Reader, count int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	if count == 0 {
		return []byte{}, nil
	}
	if count <= maxPrealloc {
		buf := make([]byte, count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, endOfStream(err)
		}
		return buf, nil
	}
	// Larger counts come from untrusted prefixes; grow with the data
	// actually read.
	buf := make([]byte, 0, maxPrealloc)
	for len(buf) < count {
		if len(buf) == cap(buf) {
			buf = slices.Grow(buf, min(count-len(buf), cap(buf)))
		}
		n, err := io.ReadFull(r, buf[len(buf):min(count, cap(buf))])
		buf = buf[:len(buf)+n]
		if err != nil {
			return nil, endOfStream(err)
		}
	}
	return buf, nil
}

// Value is a Codec for a single primitive, so primitives can take part
// in a Record next to string fields.
type Value[T Primitive] struct {
	V T
}

var _ Codec = (*Value[int32])(nil)

func (v *Value[T]) Size() int { return SizeOf[T]() }

func (v *Value[T]) WriteTo(w io.Writer) (int64, error) {
	n, err := Write(w, v.V)
	return int64(n), err
}

func (v *Value[T]) ReadFrom(r io.Reader) (int64, error) {
	x, err := Read[T](r)
	if err != nil {
		return 0, err
	}
	v.V = x
	return int64(v.Size()), nil
}

func (v *Value[T]) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(v)
}

func (v *Value[T]) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(v, data)
}

func (v *Value[T]) MarshalTo(p []byte) (int, error) {
	return MarshalToGeneric(v, p)
}
