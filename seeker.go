package bincodec

import (
	"fmt"
	"io"
)

// forwardSeeker gives a plain io.Reader a Seek that can only move forward,
// by discarding. It backs buffered Readers over pipes and sockets.
type forwardSeeker struct {
	r      io.Reader
	offset int64
}

// ForwardSeeker returns r itself when it can already seek, and otherwise
// a forward-only io.ReadSeeker over r.
func ForwardSeeker(r io.Reader) io.ReadSeeker {
	if r == nil {
		panic("bincodec: ForwardSeeker called with a nil io.Reader")
	}
	if seeker, ok := r.(io.ReadSeeker); ok {
		return seeker
	}
	return &forwardSeeker{r: r}
}

func (s *forwardSeeker) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.offset += int64(n)
	return n, err
}

// Seek supports io.SeekStart and io.SeekCurrent targets at or after the
// current offset.
func (s *forwardSeeker) Seek(offset int64, whence int) (int64, error) {
	target := offset
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		target += s.offset
	default:
		return s.offset, fmt.Errorf("%w: value %d is not supported", ErrInvalidWhence, whence)
	}
	if target < s.offset {
		return s.offset, fmt.Errorf("%w: cannot seek to %d (current: %d)", ErrUnsupportedNegativeSeek, target, s.offset)
	}

	skipped, err := Discard(s.r, target-s.offset)
	s.offset += skipped
	return s.offset, endOfStream(err)
}
