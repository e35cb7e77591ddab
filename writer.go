package bincodec

import (
	"bufio"
	"encoding/binary"
	"io"
)

type writer interface {
	io.Writer
	io.ReaderFrom
	io.Closer
}

type WriterPro interface {
	writer
	io.ByteWriter
	io.StringWriter
	Size() int
	Flush() error
}

// Writer encodes a sequence of values onto a stream.
// It tracks the first error; after it, every write is a no-op. Output is
// buffered unless the sink is a Buffer, so call Flush or Result at the end.
type Writer struct {
	w     WriterPro
	count int64 // total bytes written
	err   error // first error encountered. Subsequent writes become no-ops.
	depth int
	order binary.ByteOrder
	enc   *Encoding
}

var _ WriterPro = (*Writer)(nil)

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// Nest inside an existing Writer so its count and error stay authoritative.
	case *Writer:
		return &Writer{w: bw, depth: bw.depth + 1, order: bw.order, enc: bw.enc}, nil

	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: &bufioWriterAdapter{bw}, depth: 1, order: Order, enc: Default}, nil
		}
		return nil, ErrAlreadyBuffered

	case *Buffer:
		return &Writer{w: bw, order: Order, enc: Default}, nil
	}

	return &Writer{w: &bufioWriterAdapter{bufio.NewWriterSize(w, size)}, order: Order, enc: Default}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// WithByteOrder sets the byte order of fixed-size values.
func (w *Writer) WithByteOrder(order binary.ByteOrder) *Writer {
	w.order = order
	return w
}

// WithEncoding sets the text encoding of characters and strings.
func (w *Writer) WithEncoding(enc *Encoding) *Writer {
	w.enc = encodingOf(enc)
	return w
}

func (w *Writer) Close() error {
	return w.w.Close()
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if len(buf) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteString implements the io.StringWriter interface.
func (w *Writer) WriteString(str string) (int, error) {
	if str == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(str)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// ReadFrom implements io.ReaderFrom for efficient copying.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	if r == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.ReadFrom(r)
	w.count += n
	w.setError(err)
	return n, w.err
}

func (w *Writer) Size() int    { return w.w.Size() }
func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
// Only the outermost of nested Writers flushes.
func (w *Writer) Flush() error {
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// WriteFrom encodes a Codec (or any io.WriterTo) onto the stream.
func (w *Writer) WriteFrom(wt io.WriterTo) {
	if wt == nil || w.err != nil {
		return
	}
	_, err := wt.WriteTo(w)
	w.setError(err)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(buf []byte) {
	if w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

// WriteZeros writes n zero bytes, often for padding.
func (w *Writer) WriteZeros(n int64) {
	if w.err != nil || n <= 0 {
		return
	}
	if n <= BUFFER_SIZE {
		w.Write(empty[:n])
	} else {
		_, err := io.CopyN(w, Zero, n)
		w.setError(err)
	}
}

// Align writes zero bytes until the count is a multiple of n.
func (w *Writer) Align(n int) {
	if n > 1 {
		w.WriteZeros(Roundup(w.count, int64(n)) - w.count)
	}
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) WriteUint8(v uint8) { _ = w.WriteByte(v) }
func (w *Writer) WriteInt8(v int8)   { _ = w.WriteByte(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

func (w *Writer) WriteFloat32(v float32) {
	if w.err != nil {
		return
	}
	_, err := WriteOrder(w, w.order, v)
	w.setError(err)
}

func (w *Writer) WriteFloat64(v float64) {
	if w.err != nil {
		return
	}
	_, err := WriteOrder(w, w.order, v)
	w.setError(err)
}

// --- Text Write Operations ---

func (w *Writer) WriteChar(c rune) {
	if w.err != nil {
		return
	}
	_, err := WriteChar(w, c, w.enc)
	w.setError(err)
}

func (w *Writer) WriteCompressedInt(v uint32) {
	if w.err != nil {
		return
	}
	_, err := WriteCompressedInt(w, v)
	w.setError(err)
}

func (w *Writer) WriteCompressedString(s string) {
	if w.err != nil {
		return
	}
	_, err := WriteCompressedString(w, s, w.enc)
	w.setError(err)
}

func (w *Writer) WritePrefixedString(s string, prefix LengthPrefix) {
	if w.err != nil {
		return
	}
	_, err := WritePrefixedString(w, s, prefix, w.enc)
	w.setError(err)
}

// WriteFixedString pads or truncates s to length characters with fill.
func (w *Writer) WriteFixedString(s string, length int, fill rune) {
	if w.err != nil {
		return
	}
	_, err := WriteFixedString(w, s, length, StringOptions{Encoding: w.enc, Fill: fill})
	w.setError(err)
}

func (w *Writer) WriteNullTerminatedString(s string) {
	if w.err != nil {
		return
	}
	_, err := WriteNullTerminatedString(w, s, w.enc)
	w.setError(err)
}
