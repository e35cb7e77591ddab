package bincodec

import (
	"fmt"
	"io"
)

// MaxCompressedIntLen is the longest encoding of a 32-bit compressed integer.
const MaxCompressedIntLen = 5

// CompressedIntSize returns the number of bytes v occupies once compressed.
func CompressedIntSize(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// PutCompressedInt encodes v into buf, seven bits per byte with the low
// group first, and returns the number of bytes used. buf must hold at
// least CompressedIntSize(v) bytes.
func PutCompressedInt(buf []byte, v uint32) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// WriteCompressedInt writes v as a compressed integer.
func WriteCompressedInt(w io.Writer, v uint32) (int, error) {
	var buf [MaxCompressedIntLen]byte
	n := PutCompressedInt(buf[:], v)
	return writeFull(w, buf[:n])
}

// ReadCompressedInt decodes a compressed integer. The fifth byte may only
// carry the top four bits of the value; anything else, including a fifth
// continuation bit, is ErrMalformedVarint.
func ReadCompressedInt(r io.Reader) (uint32, error) {
	var v uint32
	for i := 0; i < MaxCompressedIntLen; i++ {
		b, err := readByte(r)
		if err != nil {
			return 0, endOfStream(err)
		}
		if i == MaxCompressedIntLen-1 && b > 0x0F {
			return 0, fmt.Errorf("%w: byte %d is 0x%02x", ErrMalformedVarint, i, b)
		}
		v |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, ErrMalformedVarint
}
