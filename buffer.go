package bincodec

import "io"

// Buffer is an in-memory, seekable stream. Reads and writes share one
// position, as they would on a file. A growable Buffer extends its slice on
// writes past the end; a fixed Buffer never grows and reports
// io.ErrShortWrite once its capacity is exhausted.
type Buffer struct {
	B     []byte // contents
	N     int    // current position
	fixed bool
}

var (
	_ io.ReadWriteSeeker = (*Buffer)(nil)
	_ ReaderPro          = (*Buffer)(nil)
	_ WriterPro          = (*Buffer)(nil)
)

// NewBuffer creates a growable Buffer positioned at the start of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{B: b}
}

// NewFixedBuffer creates a Buffer over the full capacity of p that
// never reallocates.
func NewFixedBuffer(p []byte) *Buffer {
	return &Buffer{B: p[:cap(p)], fixed: true}
}

func (b *Buffer) Close() error { return nil }
func (b *Buffer) Flush() error { return nil }

// Read implements the [io.Reader] interface.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.N >= len(b.B) {
		return 0, io.EOF
	}
	n := copy(p, b.B[b.N:])
	b.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (b *Buffer) ReadByte() (byte, error) {
	if b.N >= len(b.B) {
		return 0, io.EOF
	}
	c := b.B[b.N]
	b.N++
	return c, nil
}

// UnreadByte implements the [io.ByteScanner] interface.
func (b *Buffer) UnreadByte() error {
	if b.N == 0 || b.N > len(b.B) {
		return ErrInvalidUnread
	}
	b.N--
	return nil
}

// WriteTo implements the [io.WriterTo] interface.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.N >= len(b.B) {
		return 0, nil
	}
	n, err := w.Write(b.B[b.N:])
	if n < 0 || n > len(b.B)-b.N {
		return 0, io.ErrShortWrite
	}
	b.N += n
	return int64(n), err
}

// grow makes room for n bytes at the current position and returns how
// many of them fit.
func (b *Buffer) grow(n int) int {
	end := b.N + n
	if end <= len(b.B) {
		return n
	}
	if b.fixed {
		if b.N >= len(b.B) {
			return 0
		}
		return len(b.B) - b.N
	}
	old := len(b.B)
	if end <= cap(b.B) {
		b.B = b.B[:end]
		if b.N > old {
			clear(b.B[old:b.N])
		}
		return n
	}
	nb := make([]byte, end, max(2*cap(b.B), end, 64))
	copy(nb, b.B)
	b.B = nb
	return n
}

// Write implements the [io.Writer] interface, overwriting bytes at the
// current position.
func (b *Buffer) Write(p []byte) (int, error) {
	n := copy(b.B[b.N:b.N+b.grow(len(p))], p)
	b.N += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteString implements the [io.StringWriter] interface.
func (b *Buffer) WriteString(s string) (int, error) {
	n := copy(b.B[b.N:b.N+b.grow(len(s))], s)
	b.N += n
	if n < len(s) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte implements the [io.ByteWriter] interface.
func (b *Buffer) WriteByte(c byte) error {
	if b.grow(1) == 0 {
		return io.ErrShortWrite
	}
	b.B[b.N] = c
	b.N++
	return nil
}

// ReadFrom implements the [io.ReaderFrom] interface, reading r until EOF.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	if b.N > len(b.B) {
		b.grow(0)
	}
	for {
		limit := len(b.B)
		if b.fixed {
			if b.N >= limit {
				return total, io.ErrShortWrite
			}
		} else {
			if b.N == cap(b.B) {
				nb := make([]byte, len(b.B), max(2*cap(b.B), 512))
				copy(nb, b.B)
				b.B = nb
			}
			limit = cap(b.B)
		}
		n, err := r.Read(b.B[b.N:limit])
		if n < 0 || n > limit-b.N {
			return total, ErrInvalidRead
		}
		if b.N+n > len(b.B) {
			b.B = b.B[:b.N+n]
		}
		b.N += n
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Seek implements the [io.Seeker] interface. A growable Buffer may seek
// past the end; Len is unchanged until a write fills the gap with zeros.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.N) + offset
	case io.SeekEnd:
		abs = int64(len(b.B)) + offset
	default:
		return 0, ErrInvalidWhence
	}
	if abs < 0 {
		return 0, ErrInvalidSeek
	}
	if abs > int64(len(b.B)) && b.fixed {
		return 0, ErrInvalidSeek
	}
	b.N = int(abs)
	return abs, nil
}

// Rewind moves the position back to the start.
func (b *Buffer) Rewind() { b.N = 0 }

// Reset empties a growable Buffer, or rewinds a fixed one.
func (b *Buffer) Reset() {
	if !b.fixed {
		b.B = b.B[:0]
	}
	b.N = 0
}

// Pos returns the current position.
func (b *Buffer) Pos() int { return b.N }

// Len returns the number of bytes held.
func (b *Buffer) Len() int { return len(b.B) }

// Size returns the number of bytes held, or the capacity of a fixed Buffer.
func (b *Buffer) Size() int { return len(b.B) }

// Available returns the number of bytes left to read.
func (b *Buffer) Available() int { return max(len(b.B)-b.N, 0) }

// Bytes returns the whole contents. For a fixed Buffer this is the
// written prefix.
func (b *Buffer) Bytes() []byte {
	if b.fixed {
		return b.B[:b.N]
	}
	return b.B
}
