package bincodec

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Zero is an io.Reader that reads an infinite stream of zero bytes.
var Zero io.Reader = zero{}

type zero struct{}

func (z zero) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

type reader interface {
	io.Reader
	io.WriterTo
	io.Closer
}

type ReaderPro interface {
	reader
	io.ByteReader
	io.Seeker
	Size() int
}

// Reader decodes a sequence of values from a stream.
// It tracks the first error; after it, every read is a no-op and leaves its
// destination untouched. Unless the source is already in memory, Reader
// buffers, so the source position runs ahead of Count.
type Reader struct {
	r     ReaderPro
	count int64 // total bytes read
	err   error // first error encountered.
	order binary.ByteOrder
	enc   *Encoding
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader with a specified buffer size.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying buffer if it's already a compatible Reader.
	case *Reader:
		if reader.r.Size() >= size {
			return &Reader{r: reader.r, order: reader.order, enc: reader.enc}, nil
		}
	case *Buffer:
		return &Reader{r: reader, order: Order, enc: Default}, nil
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}, order: Order, enc: Default}, nil
	}

	if size < 16 {
		return nil, ErrSizeTooSmall
	}
	return &Reader{r: newBufioReaderAdapter(r, size), order: Order, enc: Default}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, BUFFER_SIZE)
}

// WithByteOrder sets the byte order of fixed-size values.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// WithEncoding sets the text encoding of characters and strings.
func (r *Reader) WithEncoding(enc *Encoding) *Reader {
	r.enc = encodingOf(enc)
	return r
}

func (r *Reader) Close() error {
	return r.r.Close()
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// Seek moves the read pointer.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.err != nil {
		return r.count, r.err
	}
	newPos, err := r.r.Seek(offset, whence)
	r.count = newPos
	r.setError(err)
	return newPos, err
}

// WriteTo implements io.WriterTo for efficient copying.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if w == nil {
		r.setError(ErrWriteToNil)
		return 0, r.err
	}

	n, err := r.r.WriteTo(w)
	r.count += n
	r.setError(err)
	return n, r.err
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// fail records a decoding error. A clean io.EOF latched by the byte-level
// reads underneath is replaced, since the value it interrupted is the
// more useful diagnosis.
func (r *Reader) fail(err error) {
	if err != nil && (r.err == nil || r.err == io.EOF) {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// readFull reads exactly n bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		r.err = endOfStream(err)
		return nil
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	b, err := ReadBytes(r, n)
	r.fail(err)
	return b
}

func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	if _, err := io.ReadFull(r, dest); err != nil {
		r.fail(endOfStream(err))
	}
}

// Align discards bytes until the count is a multiple of n.
func (r *Reader) Align(n int) {
	if n > 1 && r.err == nil {
		_, err := Discard(r, Roundup(r.count, int64(n))-r.count)
		r.fail(endOfStream(err))
	}
}

// --- Primitive Read Operations ---

func (r *Reader) ReadBool(dest *bool) {
	if r.err != nil {
		return
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
		*dest = b != 0
	} else {
		r.err = endOfStream(err)
	}
}

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

// UnreadByte gives back the last byte read, when the source supports it.
func (r *Reader) UnreadByte() error {
	if r.err != nil {
		return r.err
	}
	s, ok := r.r.(io.ByteScanner)
	if !ok {
		return ErrInvalidUnread
	}
	if err := s.UnreadByte(); err != nil {
		return err
	}
	r.count--
	return nil
}

func (r *Reader) ReadUint8(dest *uint8) {
	if r.err != nil {
		return
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
		*dest = b
	} else {
		r.err = endOfStream(err)
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = r.order.Uint16(buf)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = r.order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = r.order.Uint64(buf)
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	var v uint8
	r.ReadUint8(&v)
	if r.err == nil {
		*dest = int8(v)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = int16(r.order.Uint16(buf))
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = int32(r.order.Uint32(buf))
	}
}

func (r *Reader) ReadInt64(dest *int64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = int64(r.order.Uint64(buf))
	}
}

func (r *Reader) ReadFloat32(dest *float32) {
	if r.err != nil {
		return
	}
	v, err := ReadOrder[float32](r, r.order)
	if err != nil {
		r.fail(err)
		return
	}
	*dest = v
}

func (r *Reader) ReadFloat64(dest *float64) {
	if r.err != nil {
		return
	}
	v, err := ReadOrder[float64](r, r.order)
	if err != nil {
		r.fail(err)
		return
	}
	*dest = v
}

// --- Text Read Operations ---

func (r *Reader) ReadChar() rune {
	if r.err != nil {
		return 0
	}
	c, err := ReadChar(r, r.enc)
	r.fail(err)
	return c
}

func (r *Reader) ReadCompressedInt() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := ReadCompressedInt(r)
	r.fail(err)
	return v
}

func (r *Reader) ReadCompressedString() string {
	if r.err != nil {
		return ""
	}
	s, err := ReadCompressedString(r, r.enc)
	r.fail(err)
	return s
}

func (r *Reader) ReadPrefixedString(prefix LengthPrefix) string {
	if r.err != nil {
		return ""
	}
	s, err := ReadPrefixedString(r, prefix, r.enc)
	r.fail(err)
	return s
}

// ReadFixedString reads length characters and strips trailing fill.
func (r *Reader) ReadFixedString(length int, fill rune) string {
	if r.err != nil {
		return ""
	}
	s, err := ReadFixedString(r, length, StringOptions{Encoding: r.enc, Fill: fill})
	r.fail(err)
	return s
}

func (r *Reader) ReadNullTerminatedString() string {
	if r.err != nil {
		return ""
	}
	s, err := ReadNullTerminatedString(r, r.enc)
	r.fail(err)
	return s
}

// ReadTo decodes a Codec from the stream.
func (r *Reader) ReadTo(c io.ReaderFrom) {
	if r.err != nil || c == nil {
		return
	}
	_, err := c.ReadFrom(r)
	r.fail(err)
}
