package bincodec

import (
	"bufio"
	"bytes"
	"io"
)

// Adapters lift standard library readers and writers to ReaderPro/WriterPro.
type (
	bytesReaderAdapter struct{ *bytes.Reader }
	bufioWriterAdapter struct{ *bufio.Writer }

	// bufioReaderAdapter tracks the logical stream position, which differs
	// from the source position by the number of buffered bytes.
	bufioReaderAdapter struct {
		*bufio.Reader
		seeker io.ReadSeeker // source the buffer fills from
		pos    int64
	}
)

func (r *bytesReaderAdapter) Close() error { return nil }
func (r *bytesReaderAdapter) Size() int    { return int(r.Reader.Size()) }
func (w *bufioWriterAdapter) Close() error { return nil }
func (r *bufioReaderAdapter) Close() error { return nil }
func (r *bufioReaderAdapter) Size() int    { return r.Reader.Size() }

func newBufioReaderAdapter(r io.Reader, size int) *bufioReaderAdapter {
	seeker := ForwardSeeker(r)
	return &bufioReaderAdapter{Reader: bufio.NewReaderSize(seeker, size), seeker: seeker}
}

func (b *bufioReaderAdapter) Read(p []byte) (n int, err error) {
	n, err = b.Reader.Read(p)
	b.pos += int64(n)
	return n, err
}

func (b *bufioReaderAdapter) ReadByte() (c byte, err error) {
	c, err = b.Reader.ReadByte()
	if err == nil {
		b.pos++
	}
	return c, err
}

func (b *bufioReaderAdapter) UnreadByte() error {
	if err := b.Reader.UnreadByte(); err != nil {
		return err
	}
	b.pos--
	return nil
}

func (b *bufioReaderAdapter) WriteTo(w io.Writer) (n int64, err error) {
	n, err = b.Reader.WriteTo(w)
	b.pos += n
	return n, err
}

// Seek discards buffered bytes when the target is inside the buffer and
// otherwise seeks the source and drops the buffer. Sources that cannot seek
// only move forward.
func (b *bufioReaderAdapter) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = b.pos + offset
	case io.SeekEnd:
		end, err := b.seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return b.pos, err
		}
		// Put the source back where the buffer expects it.
		if _, err := b.seeker.Seek(b.pos+int64(b.Reader.Buffered()), io.SeekStart); err != nil {
			return b.pos, err
		}
		target = end + offset
	default:
		return b.pos, ErrInvalidWhence
	}
	if target < 0 {
		return b.pos, ErrInvalidSeek
	}

	if b.pos <= target && target < b.pos+int64(b.Reader.Buffered()) {
		n, err := b.Reader.Discard(int(target - b.pos))
		b.pos += int64(n)
		return b.pos, err
	}

	newPos, err := b.seeker.Seek(target, io.SeekStart)
	if err != nil {
		return b.pos, err
	}
	b.Reader.Reset(b.seeker)
	b.pos = newPos
	return newPos, nil
}
