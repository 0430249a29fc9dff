package chunk

// FieldReader decodes a run of fields and keeps the first error, so record
// decoders can read every field and check once at the end.
type FieldReader struct {
	r   *Reader
	err error
}

// Fields returns a FieldReader over r.
func (r *Reader) Fields() *FieldReader {
	return &FieldReader{r: r}
}

// Err returns the first error encountered.
func (f *FieldReader) Err() error {
	return f.err
}

// Reader returns the underlying reader.
func (f *FieldReader) Reader() *Reader {
	return f.r
}

// U8 reads a byte into p.
func (f *FieldReader) U8(p *uint8) {
	if f.err == nil {
		*p, f.err = f.r.ReadU8()
	}
}

// U16 reads a u16 into p.
func (f *FieldReader) U16(p *uint16) {
	if f.err == nil {
		*p, f.err = f.r.ReadU16()
	}
}

// U32 reads a u32 into p.
func (f *FieldReader) U32(p *uint32) {
	if f.err == nil {
		*p, f.err = f.r.ReadU32()
	}
}

// I32 reads an i32 into p.
func (f *FieldReader) I32(p *int32) {
	if f.err == nil {
		*p, f.err = f.r.ReadI32()
	}
}

// U64 reads a u64 into p.
func (f *FieldReader) U64(p *uint64) {
	if f.err == nil {
		*p, f.err = f.r.ReadU64()
	}
}

// F32 reads an f32 into p.
func (f *FieldReader) F32(p *float32) {
	if f.err == nil {
		*p, f.err = f.r.ReadF32()
	}
}

// String reads a null-terminated string into p.
func (f *FieldReader) String(p *string) {
	if f.err == nil {
		*p, f.err = f.r.ReadString()
	}
}

// U16Vector reads a u32 counted list of u16 values into p.
func (f *FieldReader) U16Vector(p *[]uint16) {
	if f.err == nil {
		*p, f.err = f.r.ReadU16Vector()
	}
}

// Value decodes a nested record.
func (f *FieldReader) Value(c Codec) {
	if f.err == nil {
		f.err = c.Read(f.r)
	}
}

// Do runs fn unless an earlier field failed.
func (f *FieldReader) Do(fn func(r *Reader) error) {
	if f.err == nil {
		f.err = fn(f.r)
	}
}

// FieldWriter is the encoding counterpart of FieldReader.
type FieldWriter struct {
	w   *Writer
	err error
}

// Fields returns a FieldWriter over w.
func (w *Writer) Fields() *FieldWriter {
	return &FieldWriter{w: w}
}

// Err returns the first error encountered.
func (f *FieldWriter) Err() error {
	return f.err
}

// U8 writes one byte.
func (f *FieldWriter) U8(v uint8) {
	if f.err == nil {
		f.err = f.w.WriteU8(v)
	}
}

// U16 writes a u16.
func (f *FieldWriter) U16(v uint16) {
	if f.err == nil {
		f.err = f.w.WriteU16(v)
	}
}

// U32 writes a u32.
func (f *FieldWriter) U32(v uint32) {
	if f.err == nil {
		f.err = f.w.WriteU32(v)
	}
}

// I32 writes an i32.
func (f *FieldWriter) I32(v int32) {
	if f.err == nil {
		f.err = f.w.WriteI32(v)
	}
}

// U64 writes a u64.
func (f *FieldWriter) U64(v uint64) {
	if f.err == nil {
		f.err = f.w.WriteU64(v)
	}
}

// F32 writes an f32.
func (f *FieldWriter) F32(v float32) {
	if f.err == nil {
		f.err = f.w.WriteF32(v)
	}
}

// String writes v with a null terminator.
func (f *FieldWriter) String(v string) {
	if f.err == nil {
		f.err = f.w.WriteString(v)
	}
}

// U16Vector writes a u32 count followed by the values.
func (f *FieldWriter) U16Vector(v []uint16) {
	if f.err == nil {
		f.err = f.w.WriteU16Vector(v)
	}
}

// Value encodes a nested record.
func (f *FieldWriter) Value(c Codec) {
	if f.err == nil {
		f.err = c.Write(f.w)
	}
}

// Do runs fn unless an earlier field failed.
func (f *FieldWriter) Do(fn func(w *Writer) error) {
	if f.err == nil {
		f.err = fn(f.w)
	}
}
