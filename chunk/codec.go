package chunk

// Codec is implemented by every record that has a binary representation.
//
// Read consumes exactly the bytes of one value from the cursor and Write
// appends exactly its canonical bytes, so Read(Write(x)) == x.
type Codec interface {
	Read(r *Reader) error
	Write(w *Writer) error
}

// codecPtr constrains P to a pointer to T implementing Codec, so that
// helpers can be called as ReadList[Vector3d](r).
type codecPtr[T any] interface {
	*T
	Codec
}

// ReadValue reads one T.
func ReadValue[T any, P codecPtr[T]](r *Reader) (T, error) {
	var v T
	err := P(&v).Read(r)
	return v, err
}

// ReadList reads a u32 count followed by that many values.
func ReadList[T any, P codecPtr[T]](r *Reader) ([]T, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, min(int(count), r.Remaining()))
	for range count {
		var v T
		if err := P(&v).Read(r); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := Expect("list length", int(count), len(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteList writes a u32 count followed by the values. An empty list
// still writes its zero count.
func WriteList[T any, P codecPtr[T]](w *Writer, items []T) error {
	if err := w.WriteU32(uint32(len(items))); err != nil { //nolint:gosec // list sizes fit u32
		return err
	}
	for i := range items {
		if err := P(&items[i]).Write(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadOptional reads a u8 presence flag and, when it is 1, one value.
func ReadOptional[T any, P codecPtr[T]](r *Reader) (*T, error) {
	flag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if flag != 1 {
		return nil, nil
	}
	v, err := ReadValue[T, P](r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// WriteOptional writes a u8 presence flag followed by v when it is set.
func WriteOptional[T any, P codecPtr[T]](w *Writer, v *T) error {
	if v == nil {
		return w.WriteU8(0)
	}
	if err := w.WriteU8(1); err != nil {
		return err
	}
	return P(v).Write(w)
}
