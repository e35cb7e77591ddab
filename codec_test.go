package bincodec

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mocks and Helpers ---

// mockFlushingWriter helps verify that a writer's Flush method is called.
type mockFlushingWriter struct {
	bytes.Buffer
	flushed bool
}

func (m *mockFlushingWriter) Flush() error {
	m.flushed = true
	return nil
}

// oneByteReader hides every interface but io.Reader and returns a single
// byte per call.
type oneByteReader struct{ r io.Reader }

func (o *oneByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return o.r.Read(p[:1])
}

// --- Writer Test Suite ---

type WriterTestSuite struct {
	suite.Suite
	buf    *bytes.Buffer
	writer *Writer
}

// SetupTest runs before each test in the suite, ensuring a clean state.
func (s *WriterTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
	s.writer, _ = NewWriter(s.buf)
}

func (s *WriterTestSuite) TestConstructors() {
	s.T().Run("NilWriter", func(t *testing.T) {
		_, err := NewWriter(nil)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	s.T().Run("AlreadyBuffered", func(t *testing.T) {
		bw := bufio.NewWriterSize(&bytes.Buffer{}, 16)
		_, err := NewWriterSize(bw, 4096)
		assert.ErrorIs(t, err, ErrAlreadyBuffered)

		w, err := NewWriterSize(bw, 16)
		require.NoError(t, err)
		assert.Equal(t, 16, w.Size())
	})
}

func (s *WriterTestSuite) TestBasicWrites() {
	value := &Value[uint32]{V: 0xDEADBEEF}

	s.writer.WriteUint8(0xAA)
	s.writer.WriteUint16(0xBBCC)
	s.writer.WriteUint32(0xDDEEFF00)
	s.writer.WriteUint64(0x0102030405060708)
	s.writer.WriteBytes([]byte{5, 6, 7})
	s.writer.WriteZeros(2)
	s.writer.WriteFrom(value)

	n, err := s.writer.Result()
	s.Require().NoError(err)
	s.Assert().EqualValues(1+2+4+8+3+2+4, n)
	s.Assert().EqualValues(s.buf.Len(), s.writer.Count())

	expected := []byte{
		0xAA,       // WriteUint8
		0xCC, 0xBB, // WriteUint16 (Little Endian)
		0x00, 0xFF, 0xEE, 0xDD, // WriteUint32 (Little Endian)
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, // WriteUint64 (Little Endian)
		5, 6, 7, // WriteBytes
		0, 0, // WriteZeros
		0xEF, 0xBE, 0xAD, 0xDE, // WriteFrom(value)
	}
	s.Assert().Equal(expected, s.buf.Bytes())
}

func (s *WriterTestSuite) TestSignedAndFloat() {
	s.writer.WriteInt8(-1)
	s.writer.WriteInt16(-2)
	s.writer.WriteInt32(12345)
	s.writer.WriteInt64(-1)
	s.writer.WriteBool(true)
	s.writer.WriteFloat32(1)
	s.writer.WriteFloat64(1)

	_, err := s.writer.Result()
	s.Require().NoError(err)

	r, err := NewReader(bytes.NewReader(s.buf.Bytes()))
	s.Require().NoError(err)
	var (
		i8  int8
		i16 int16
		i32 int32
		i64 int64
		b   bool
		f32 float32
		f64 float64
	)
	r.ReadInt8(&i8)
	r.ReadInt16(&i16)
	r.ReadInt32(&i32)
	r.ReadInt64(&i64)
	r.ReadBool(&b)
	r.ReadFloat32(&f32)
	r.ReadFloat64(&f64)
	s.Require().NoError(r.Err())
	s.Equal(int8(-1), i8)
	s.Equal(int16(-2), i16)
	s.Equal(int32(12345), i32)
	s.Equal(int64(-1), i64)
	s.True(b)
	s.Equal(float32(1), f32)
	s.Equal(1.0, f64)
	s.EqualValues(1+2+4+8+1+4+8, r.Count())
}

func (s *WriterTestSuite) TestByteOrder() {
	s.writer.WithByteOrder(BE).WriteUint32(0x01020304)
	s.writer.WriteFloat32(1)
	_, err := s.writer.Result()
	s.Require().NoError(err)
	s.Equal([]byte{1, 2, 3, 4, 0x3F, 0x80, 0x00, 0x00}, s.buf.Bytes())
}

func (s *WriterTestSuite) TestText() {
	s.writer.WriteCompressedInt(300)
	s.writer.WriteCompressedString("Hello")
	s.writer.WritePrefixedString("ab", PrefixTwo)
	s.writer.WriteFixedString("xyz", 2, ' ')
	s.writer.WriteNullTerminatedString("n")
	s.writer.WithEncoding(UTF16BE).WriteChar('A')

	n, err := s.writer.Result()
	s.Require().NoError(err)
	expected := []byte{
		// compressed 300
		0xAC, 0x02,
		// compressed string
		0x05, 'H', 'e', 'l', 'l', 'o',
		// prefixed string
		0x02, 0x00, 'a', 'b',
		// fixed string
		'x', 'y',
		// null-terminated string
		'n', 0x00,
		// UTF-16BE char
		0x00, 'A',
	}
	s.Equal(expected, s.buf.Bytes())
	s.EqualValues(len(expected), n)
}

func (s *WriterTestSuite) TestAlign() {
	s.writer.WriteUint8(1)
	s.writer.Align(4)
	s.writer.WriteUint8(2)
	s.writer.Align(4)
	s.writer.Align(4)
	_, err := s.writer.Result()
	s.Require().NoError(err)
	s.Equal([]byte{1, 0, 0, 0, 2, 0, 0, 0}, s.buf.Bytes())
}

func (s *WriterTestSuite) TestLargeZeros() {
	s.writer.WriteZeros(BUFFER_SIZE*2 + 1)
	n, err := s.writer.Result()
	s.Require().NoError(err)
	s.EqualValues(BUFFER_SIZE*2+1, n)
	s.Equal(make([]byte, BUFFER_SIZE*2+1), s.buf.Bytes())
}

func (s *WriterTestSuite) TestNested() {
	inner, err := NewWriter(s.writer)
	s.Require().NoError(err)
	inner.WriteUint16(7)
	s.Require().NoError(inner.Flush())
	s.Zero(s.buf.Len(), "a nested writer never flushes")

	s.writer.WriteUint8(8)
	n, err := s.writer.Result()
	s.Require().NoError(err)
	s.EqualValues(3, n)
	s.EqualValues(2, inner.Count())
	s.Equal([]byte{7, 0, 8}, s.buf.Bytes())
}

func (s *WriterTestSuite) TestErrorHandling() {
	s.T().Run("ShortBufferError", func(t *testing.T) {
		// A fixed Buffer is written directly, so the error surfaces at once.
		fixedBuf := make([]byte, 5)
		writer, _ := NewWriter(NewFixedBuffer(fixedBuf))

		writer.WriteUint32(0x11223344)
		writer.WriteUint32(0xAABBCCDD)

		_, err := writer.Result()
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrShortWrite)
	})

	s.T().Run("WriteAfterErrorIsNoOp", func(t *testing.T) {
		fixedBuf := make([]byte, 5)
		writer, _ := NewWriter(NewFixedBuffer(fixedBuf))

		writer.WriteUint32(0x11223344)
		writer.WriteUint32(0xAABBCCDD)

		firstErr := writer.Err()
		require.ErrorIs(t, firstErr, io.ErrShortWrite)

		writer.WriteUint8(0xFF)
		writer.WriteCompressedString("ignored")
		writer.Flush()
		assert.Equal(t, firstErr, writer.Err(), "The latched error should not change")

		// Four bytes of the first value and one of the second fit.
		assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11, 0xDD}, fixedBuf)
		assert.EqualValues(t, 5, writer.Count())
	})

	s.T().Run("CodecErrorIsLatched", func(t *testing.T) {
		buf := NewBuffer(nil)
		writer, _ := NewWriter(buf)
		writer.WritePrefixedString("abc", LengthPrefix(3))
		writer.WriteUint8(1)

		_, err := writer.Result()
		assert.ErrorIs(t, err, ErrInvalidPrefix)
		assert.Zero(t, buf.Len())
	})
}

func (s *WriterTestSuite) TestFlush() {
	// mockFlushingWriter has a custom Flush method we can inspect.
	mock := &mockFlushingWriter{}
	writer, _ := NewWriterSize(mock, 128)
	writer.WriteUint8(0xAA)

	// Before flush, data is in the buffer, but not in the underlying writer.
	s.Assert().True(writer.w.(*bufioWriterAdapter).Buffered() > 0)
	s.Assert().False(mock.flushed)
	s.Assert().Zero(mock.Len())

	writer.Flush()

	s.Assert().False(mock.flushed, "bufio flushes by writing, not by calling Flush on the sink")
	s.Assert().Zero(writer.w.(*bufioWriterAdapter).Buffered())
	s.Assert().Equal(1, mock.Buffer.Len())
}

// TestWriter runs the WriterTestSuite.
func TestWriter(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

// --- Reader Test Suite ---

type ReaderTestSuite struct {
	suite.Suite
}

func (s *ReaderTestSuite) TestConstructors() {
	s.T().Run("NilReader", func(t *testing.T) {
		_, err := NewReader(nil)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	s.T().Run("SizeTooSmall", func(t *testing.T) {
		_, err := NewReaderSize(&oneByteReader{bytes.NewReader(nil)}, 8)
		assert.ErrorIs(t, err, ErrSizeTooSmall)
	})

	s.T().Run("InMemorySourcesAreNotBuffered", func(t *testing.T) {
		buf := NewBuffer([]byte{1, 2})
		r, err := NewReaderSize(buf, 0)
		require.NoError(t, err)
		var v uint8
		r.ReadUint8(&v)
		assert.Equal(t, 1, buf.Pos(), "the Buffer position tracks the Reader exactly")
	})
}

func (s *ReaderTestSuite) TestSuccessfulReads() {
	data := []byte{
		0xAA,       // uint8
		0xCC, 0xBB, // uint16
		0x00, 0xFF, 0xEE, 0xDD, // uint32
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, // uint64
		0x11, 0x22, 0x33, // raw bytes
	}
	r, _ := NewReader(bytes.NewReader(data))

	var v8 uint8
	var v16 uint16
	var v32 uint32
	var v64 uint64
	r.ReadUint8(&v8)
	r.ReadUint16(&v16)
	r.ReadUint32(&v32)
	r.ReadUint64(&v64)
	read := r.ReadBytes(3)

	s.Require().NoError(r.Err())
	s.Assert().Equal(uint8(0xAA), v8)
	s.Assert().Equal(uint16(0xBBCC), v16)
	s.Assert().Equal(uint32(0xDDEEFF00), v32)
	s.Assert().Equal(uint64(0x0102030405060708), v64)
	s.Assert().Equal([]byte{0x11, 0x22, 0x33}, read)

	// The next read should result in a clean EOF.
	r.Read(make([]byte, 1))
	s.Assert().ErrorIs(r.Err(), io.EOF)
	s.Assert().True(r.IsEOF())
}

func (s *ReaderTestSuite) TestText() {
	data := []byte{
		0xAC, 0x02,
		0x05, 'H', 'e', 'l', 'l', 'o',
		0x02, 0x00, 'a', 'b',
		'x', ' ',
		'n', 0x00,
		0x00, 'A',
	}
	// oneByteReader forces the buffered path.
	r, err := NewReader(&oneByteReader{bytes.NewReader(data)})
	s.Require().NoError(err)

	s.Equal(uint32(300), r.ReadCompressedInt())
	s.Equal("Hello", r.ReadCompressedString())
	s.Equal("ab", r.ReadPrefixedString(PrefixTwo))
	s.Equal("x", r.ReadFixedString(2, ' '))
	s.Equal("n", r.ReadNullTerminatedString())
	s.Equal('A', r.WithEncoding(UTF16BE).ReadChar())
	s.Require().NoError(r.Err())
	s.EqualValues(len(data), r.Count())
}

func (s *ReaderTestSuite) TestReadTo() {
	data := []byte{0x02, 'h', 'i', 0x07, 0x00}
	title := &CompressedString{}
	count := &Value[uint16]{}
	r, _ := NewReader(bytes.NewReader(data))
	r.ReadTo(NewRecord(title, count))
	s.Require().NoError(r.Err())
	s.Equal("hi", title.Value)
	s.Equal(uint16(7), count.V)
}

func (s *ReaderTestSuite) TestAlign() {
	r, _ := NewReader(bytes.NewReader([]byte{1, 0, 0, 0, 2}))
	var a, b uint8
	r.ReadUint8(&a)
	r.Align(4)
	r.ReadUint8(&b)
	s.Require().NoError(r.Err())
	s.Equal(uint8(2), b)
	s.EqualValues(5, r.Count())
}

func (s *ReaderTestSuite) TestErrorHandling() {
	s.T().Run("ReadPastEOF", func(t *testing.T) {
		data := []byte{0x01, 0x02, 0x03}
		r, _ := NewReader(bytes.NewReader(data))
		var v32 uint32
		r.ReadUint32(&v32) // Attempt to read 4 bytes from a 3-byte source.

		require.Error(t, r.Err())
		assert.ErrorIs(t, r.Err(), ErrEndOfStream)
		assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
		assert.False(t, r.IsEOF(), "a truncated value is not a clean EOF")
	})

	s.T().Run("ReadAfterErrorIsNoOp", func(t *testing.T) {
		data := []byte{0x01, 0x02, 0x03}
		r, _ := NewReader(bytes.NewReader(data))
		var v32 uint32
		var v8 uint8

		r.ReadUint32(&v32) // This will trigger and latch the error.
		firstErr := r.Err()
		require.Error(t, firstErr)

		r.ReadUint8(&v8) // This read should not happen.
		assert.Equal(t, firstErr, r.Err(), "The latched error should not change")
		assert.Equal(t, uint8(0), v8, "Destination variable should be unchanged after an error")
		assert.Empty(t, r.ReadCompressedString())
	})

	s.T().Run("MissingTerminator", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader([]byte("abc")))
		assert.Empty(t, r.ReadNullTerminatedString())
		assert.ErrorIs(t, r.Err(), ErrEndOfStream)
	})

	s.T().Run("MalformedVarint", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}))
		assert.Zero(t, r.ReadCompressedInt())
		assert.ErrorIs(t, r.Err(), ErrMalformedVarint)
	})

	s.T().Run("NegativeCount", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader([]byte{1}))
		assert.Nil(t, r.ReadBytes(-1))
		assert.ErrorIs(t, r.Err(), ErrNegativeCount)
		assert.Zero(t, r.Count())
	})
}

func (s *ReaderTestSuite) TestInterfaceMethods() {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	r, _ := NewReader(bytes.NewReader(data))

	s.T().Run("WriteTo", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := r.WriteTo(&buf)
		require.NoError(t, err)
		assert.EqualValues(t, len(data), n)
		assert.Equal(t, data, buf.Bytes())
	})

	s.T().Run("WriteToNilWriter", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader(data))
		_, err := r.WriteTo(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrWriteToNil)
	})
}

func (s *ReaderTestSuite) TestSeekBehavior() {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	r, _ := NewReader(bytes.NewReader(data)) // bytes.Reader implements io.ReadSeeker

	// 1. Seek from start
	pos, err := r.Seek(3, io.SeekStart)
	s.Require().NoError(err)
	s.Assert().EqualValues(3, pos)
	s.Assert().EqualValues(3, r.Count())

	// 2. Read after seek
	b := r.ReadBytes(2)
	s.Require().NoError(r.Err())
	s.Assert().Equal([]byte{0x04, 0x05}, b)
	s.Assert().EqualValues(5, r.Count())

	// 3. Seek from current
	pos, err = r.Seek(1, io.SeekCurrent)
	s.Require().NoError(err)
	s.Assert().EqualValues(6, pos)

	// 4. Seek backwards works on a seekable source
	pos, err = r.Seek(0, io.SeekStart)
	s.Require().NoError(err)
	s.Assert().EqualValues(0, pos)
}

func (s *ReaderTestSuite) TestBufferedSeek() {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	r, _ := NewReader(&seekOnly{bytes.NewReader(data)})

	var v uint8
	r.ReadUint8(&v)
	s.Equal(uint8(1), v)

	// Inside the buffer.
	pos, err := r.Seek(2, io.SeekCurrent)
	s.Require().NoError(err)
	s.EqualValues(3, pos)
	r.ReadUint8(&v)
	s.Equal(uint8(4), v)

	// Backwards, through the source.
	pos, err = r.Seek(1, io.SeekStart)
	s.Require().NoError(err)
	s.EqualValues(1, pos)
	r.ReadUint8(&v)
	s.Equal(uint8(2), v)

	// From the end, leaving the read position consistent.
	pos, err = r.Seek(-1, io.SeekEnd)
	s.Require().NoError(err)
	s.EqualValues(7, pos)
	r.ReadUint8(&v)
	s.Equal(uint8(8), v)
	s.Require().NoError(r.Err())
}

// seekOnly hides bytes.Reader's other interfaces so NewReader buffers it.
type seekOnly struct{ r *bytes.Reader }

func (s *seekOnly) Read(p []byte) (int, error)                   { return s.r.Read(p) }
func (s *seekOnly) Seek(offset int64, whence int) (int64, error) { return s.r.Seek(offset, whence) }

func (s *ReaderTestSuite) TestForwardOnlySeekerErrors() {
	// Use a reader that does NOT implement io.Seeker to test our forwardSeeker wrapper.
	r, _ := NewReader(bytes.NewBuffer(make([]byte, 10))) // bytes.Buffer is not a Seeker

	// 1. Seek forward works
	_, err := r.Seek(5, io.SeekStart)
	s.Require().NoError(err)

	// 2. Seek backward fails
	_, err = r.Seek(2, io.SeekStart)
	s.Require().Error(err)
	s.Assert().ErrorIs(err, ErrUnsupportedNegativeSeek)
	s.Assert().Contains(err.Error(), "unsupported negative offset")

	// 3. Seek with invalid whence fails
	r, _ = NewReader(bytes.NewBuffer(make([]byte, 10))) // bytes.Buffer is not a Seeker
	_, err = r.Seek(0, io.SeekEnd)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "unsupported whence")
}

// TestReader runs the ReaderTestSuite.
func TestReader(t *testing.T) {
	suite.Run(t, new(ReaderTestSuite))
}

// --- Standalone Codec Tests ---

func TestRoundTripThroughStreams(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewWriter(&sink)
	require.NoError(t, err)
	w.WithEncoding(UTF8)
	w.WriteInt32(12345)
	w.WriteCompressedString("naïve")
	w.WriteNullTerminatedString("")
	_, err = w.Result()
	require.NoError(t, err)

	r, err := NewReader(&sink)
	require.NoError(t, err)
	r.WithEncoding(UTF8)
	var v int32
	r.ReadInt32(&v)
	assert.Equal(t, int32(12345), v)
	assert.Equal(t, "naïve", r.ReadCompressedString())
	assert.Empty(t, r.ReadNullTerminatedString())
	require.NoError(t, r.Err())
}
