package bincodec

import (
	"errors"
	"fmt"
	"io"
)

// Error classes. Every error returned by the codec functions matches exactly
// one of ErrEndOfStream, ErrInvalidArgument or ErrMalformedData via errors.Is,
// unless it comes from the underlying stream itself.
var (
	// ErrEndOfStream indicates that the stream ended before a value could be
	// fully decoded. It also matches io.ErrUnexpectedEOF.
	ErrEndOfStream = fmt.Errorf("bincodec: end of stream: %w", io.ErrUnexpectedEOF)

	// ErrInvalidArgument is the class of caller mistakes detected before the
	// stream is touched.
	ErrInvalidArgument = errors.New("bincodec: invalid argument")

	// ErrMalformedData is the class of decoding failures caused by corrupt or
	// non-conforming input.
	ErrMalformedData = errors.New("bincodec: malformed data")
)

var (
	// ErrNegativeCount indicates a negative byte count or string length.
	ErrNegativeCount = fmt.Errorf("%w: negative count", ErrInvalidArgument)

	// ErrInvalidPrefix indicates a LengthPrefix outside {PrefixOne, PrefixTwo, PrefixFour}.
	ErrInvalidPrefix = fmt.Errorf("%w: invalid length prefix", ErrInvalidArgument)

	// ErrPrefixOverflow indicates an encoded string longer than its length prefix can express.
	ErrPrefixOverflow = fmt.Errorf("%w: string too long for length prefix", ErrInvalidArgument)

	// ErrEmbeddedNull indicates a null-terminated string that contains a NUL character.
	ErrEmbeddedNull = fmt.Errorf("%w: string contains a null character", ErrInvalidArgument)

	// ErrUnencodable indicates a character the selected text encoding cannot represent.
	ErrUnencodable = fmt.Errorf("%w: character not representable in encoding", ErrInvalidArgument)

	// ErrUnsupportedType indicates a primitive without a fixed binary size.
	ErrUnsupportedType = fmt.Errorf("%w: type has no fixed binary size", ErrInvalidArgument)

	// ErrUnknownEncoding indicates an encoding name that is not registered with IANA
	// or that cannot be framed one character at a time.
	ErrUnknownEncoding = fmt.Errorf("%w: unknown or unsupported text encoding", ErrInvalidArgument)

	// ErrMalformedVarint indicates a compressed integer longer than five bytes
	// or one whose value does not fit in 32 bits.
	ErrMalformedVarint = fmt.Errorf("%w: malformed compressed integer", ErrMalformedData)

	// ErrMalformedText indicates a byte sequence that does not frame a character,
	// such as an unpaired UTF-16 surrogate.
	ErrMalformedText = fmt.Errorf("%w: malformed character sequence", ErrMalformedData)
)

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("bincodec: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("bincodec: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("bincodec: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("bincodec: WriteTo called with a nil io.Writer")

	// ErrInvalidSeek indicates a seek was attempted to invalid position.
	ErrInvalidSeek = errors.New("bincodec: seek to a invalid position")

	// ErrInvalidUnread indicates UnreadByte was called without a byte to give back.
	ErrInvalidUnread = errors.New("bincodec: invalid use of UnreadByte")

	// ErrUnsupportedNegativeSeek indicates a backward seek was attempted on a forward-only seeker.
	ErrUnsupportedNegativeSeek = errors.New("bincodec: unsupported negative offset for forward-only seeker")

	// ErrInvalidWhence indicates that an invalid 'whence' parameter was provided to a Seek operation.
	ErrInvalidWhence = errors.New("bincodec: unsupported whence for forward-only seeker")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("bincodec: reader returned invalid count from Read")

	// ErrDiscardNegative indicates a Discard operation was attempted with a negative byte count.
	ErrDiscardNegative = errors.New("bincodec: cannot discard negative number of bytes")

	// ErrTrailingData is returned by UnmarshalBinaryGeneric when non-zero bytes are found
	// after the expected end of the data structure.
	ErrTrailingData = errors.New("bincodec: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates a marshalled value came out shorter than its reported Size.
	ErrTruncatedData = errors.New("bincodec: truncated data")
)

// endOfStream maps the io package's short-read errors onto ErrEndOfStream.
// A clean io.EOF is still a failure here: the caller asked for a value.
func endOfStream(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrEndOfStream
	}
	return err
}
