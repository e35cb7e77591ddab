package bincodec

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the default byte order: little-endian, matching the in-memory
	// layout the wire format was defined against.
	Order binary.ByteOrder = LE
)

const BUFFER_SIZE = 4096

var (
	empty   [BUFFER_SIZE]byte
	discard [BUFFER_SIZE]byte
)

func Ptr[T any](v T) *T { return &v }

// Discard skips n bytes of r.
func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := io.ReadFull(r, discard[:n])
		return int64(skip), err
	}
	return io.CopyN(io.Discard, r, n)
}

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// MAX_PADDING defines the maximum number of trailing bytes to check.
// Anything larger is considered a protocol error.
const MAX_PADDING = 1024 // 1KB

// CheckTrailingNotZeros verifies that any remaining bytes in a reader are all zero.
func CheckTrailingNotZeros(r io.Reader) error {
	if buf, ok := r.(*Buffer); ok {
		if buf.Available() == 0 {
			return nil
		}
		return CheckBufferNotZeros(buf.B[buf.N:])
	}

	lr := &io.LimitedReader{R: r, N: MAX_PADDING + 1}
	trailingData, err := io.ReadAll(lr)
	if err != nil {
		return err
	}
	if len(trailingData) > MAX_PADDING {
		return fmt.Errorf("%w: exceeds maximum expected size of %d bytes", ErrTrailingData, MAX_PADDING)
	}
	return CheckBufferNotZeros(trailingData)
}

// CheckBufferNotZeros reports ErrTrailingData if data holds any non-zero byte.
func CheckBufferNotZeros(data []byte) error {
	for i, b := range data {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}

// readByte reads exactly one byte. Readers without ReadByte are read one
// byte at a time so nothing past the byte is consumed.
func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var p [1]byte
	if _, err := io.ReadFull(r, p[:]); err != nil {
		return 0, err
	}
	return p[0], nil
}

// writeFull writes p and reports io.ErrShortWrite for writers that
// return fewer bytes without an error.
func writeFull(w io.Writer, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

// countingReader counts the bytes pulled through it. It keeps the
// one-byte-at-a-time property of readByte.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := readByte(c.r)
	if err == nil {
		c.n++
	}
	return b, err
}

func (c *countingReader) UnreadByte() error {
	s, ok := c.r.(io.ByteScanner)
	if !ok {
		return ErrInvalidUnread
	}
	if err := s.UnreadByte(); err != nil {
		return err
	}
	c.n--
	return nil
}
