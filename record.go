package bincodec

import "io"

// recordOptions defines the layout of a Record.
type recordOptions struct {
	// Alignment specifies the byte boundary to which each field (except the last) is padded.
	// A value of 0 or 1 means no alignment.
	Alignment int
}

// Record is an ordered sequence of fields encoded back to back. Decoding
// fills the fields in place, so a Record used for reading is built with
// the same field shapes (prefix widths, fixed lengths, encodings) it was
// written with.
type Record struct {
	Fields  []Codec
	options recordOptions
}

var _ Codec = (*Record)(nil)

// NewRecord creates a Record without padding between fields.
func NewRecord(fields ...Codec) *Record {
	return &Record{Fields: fields}
}

// NewAlignedRecord creates a Record that pads every field but the last to
// a multiple of alignment bytes.
func NewAlignedRecord(alignment int, fields ...Codec) *Record {
	return &Record{Fields: fields, options: recordOptions{Alignment: alignment}}
}

func (rec *Record) Len() int { return len(rec.Fields) }

// Size calculates the total binary size of the record, including alignment padding.
func (rec *Record) Size() int {
	total := 0
	last := len(rec.Fields) - 1
	for i, f := range rec.Fields {
		size := f.Size()
		total += size
		if i < last && rec.options.Alignment > 1 {
			total += Roundup(size, rec.options.Alignment) - size
		}
	}
	return total
}

// WriteTo writes every field in order.
func (rec *Record) WriteTo(writer io.Writer) (int64, error) {
	if len(rec.Fields) == 0 {
		return 0, nil
	}

	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}
	last := len(rec.Fields) - 1
	for i, f := range rec.Fields {
		start := w.Count()
		w.WriteFrom(f)
		if i < last && rec.options.Alignment > 1 {
			size := w.Count() - start
			w.WriteZeros(Roundup(size, int64(rec.options.Alignment)) - size)
		}
	}
	return w.Result()
}

// ReadFrom decodes every field in order, skipping alignment padding.
func (rec *Record) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	last := len(rec.Fields) - 1
	for i, f := range rec.Fields {
		read, err := f.ReadFrom(r)
		n += read
		if err != nil {
			return n, err
		}
		if i < last && rec.options.Alignment > 1 {
			padding := Roundup(read, int64(rec.options.Alignment)) - read
			skipped, err := Discard(r, padding)
			n += skipped
			if err != nil {
				return n, endOfStream(err)
			}
		}
	}
	return n, nil
}

// --- Boilerplate implementations ---

func (rec *Record) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(rec)
}

func (rec *Record) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(rec, data)
}

func (rec *Record) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(rec, buf)
}
