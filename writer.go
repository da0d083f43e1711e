package netcdf3

import (
	"encoding/binary"
	"io"

	"github.com/spf13/afero"
)

func writeChunkI8(w io.Writer, v []int8) error  { return binary.Write(w, binary.BigEndian, v) }
func writeChunkU8(w io.Writer, v []uint8) error { _, err := w.Write(v); return err }
func writeChunkI16(w io.Writer, v []int16) error {
	return binary.Write(w, binary.BigEndian, v)
}
func writeChunkI32(w io.Writer, v []int32) error { return binary.Write(w, binary.BigEndian, v) }
func writeChunkF32(w io.Writer, v []float32) error {
	return binary.Write(w, binary.BigEndian, v)
}
func writeChunkF64(w io.Writer, v []float64) error {
	return binary.Write(w, binary.BigEndian, v)
}

// fillValue returns the default fill value for t, or nil if t is not a
// valid element type.
func fillValue(t ElementType) interface{} {
	switch t {
	case I8:
		return int8(-127)
	case U8:
		return uint8(0)
	case I16:
		return int16(-32767)
	case I32:
		return int32(-2147483647)
	case F32:
		return float32(9.9692099683868690e+36)
	case F64:
		return float64(9.9692099683868690e+36)
	default:
		return nil
	}
}

// Writer serializes a DataSet to a NetCDF-3 file. Create a Writer with
// Create (which describes the data-set's shape by calling SetDef), supply
// each variable's data with WriteVar, then call Close. A variable never given
// to WriteVar is filled with its type's default fill value at Close,
// mirroring what a reader sees for data a writer never got around to
// supplying.
type Writer struct {
	fs      afero.Fs
	f       afero.File
	ds      *DataSet
	lay     *layout
	written map[*Variable]bool
	closed  bool
}

// Create opens path on fs for writing, truncating any existing file, and
// calls SetDef(ds) on the result.
//
// Fails with IoError or anything SetDef can fail with.
func Create(fs afero.Fs, path string, ds *DataSet) (*Writer, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, newIoError(err)
	}
	w := &Writer{fs: fs, f: f, written: make(map[*Variable]bool)}
	if err := w.SetDef(ds); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// SetDef plans ds's on-disk layout and writes its header. ds must not be
// mutated after this call; the data-set's numrecs is frozen at whatever
// ds.NumRecs() returns right now.
//
// Fails with FileSizeExceeded if the planned layout does not fit ds's
// version, or IoError.
func (w *Writer) SetDef(ds *DataSet) error {
	hlen, err := headerLen(ds)
	if err != nil {
		return err
	}
	lay, err := planLayout(ds, hlen)
	if err != nil {
		return err
	}
	if err := encodeHeader(w.f, ds, lay); err != nil {
		return newIoError(err)
	}
	w.ds = ds
	w.lay = lay
	return nil
}

// WriteVar writes the complete data for the named variable: for a fixed
// variable, values.Len() must equal the product of its dimension sizes;
// for a record variable, values.Len() must equal ds.NumRecs() times the
// product of its dimensions after the first.
//
// Fails with VariableNotDefined, VariableMismatch, TypeMismatch or
// IoError.
func (w *Writer) WriteVar(name string, values Values) error {
	if w.ds == nil {
		return newError(VariableNotDefined, name)
	}
	v := w.ds.Variable(name)
	if v == nil {
		return newError(VariableNotDefined, name)
	}
	if v.dtype != values.Type() {
		return newError(VariableMismatch, name)
	}

	s := w.lay.slotFor(v)
	if s == nil {
		return newError(VariableNotDefined, name)
	}

	if v.IsRecordVariable() {
		chunkLen := int(v.fixedTailElements())
		numChunks := int(w.ds.NumRecs())
		if values.Len() != chunkLen*numChunks {
			return newError(VariableMismatch, name)
		}
		for i := 0; i < numChunks; i++ {
			pos := s.begin + int64(i)*w.lay.recordSize
			chunk, err := slice(values, i*chunkLen, chunkLen)
			if err != nil {
				return err
			}
			if err := w.writeChunkAt(pos, chunk, s.vsize); err != nil {
				return err
			}
		}
	} else {
		if int64(values.Len()) != v.elementCount() {
			return newError(VariableMismatch, name)
		}
		if err := w.writeChunkAt(s.begin, values, s.vsize); err != nil {
			return err
		}
	}

	w.written[v] = true
	return nil
}

// writeChunkAt writes values at pos, then zero-pads the block out to size
// bytes so the next block starts on a 4-byte boundary. size is the slot's
// planned vsize (or, for one record slice of a record variable, that
// variable's vsize); for I32/F32/F64 payloads it always equals the raw
// byte length already, since those element sizes are 4-byte-aligned.
func (w *Writer) writeChunkAt(pos int64, values Values, size int64) error {
	if _, err := w.f.Seek(pos, io.SeekStart); err != nil {
		return newIoError(err)
	}
	var err error
	switch values.Type() {
	case I8:
		s, _ := values.I8()
		err = writeChunkI8(w.f, s)
	case U8:
		s, _ := values.U8()
		err = writeChunkU8(w.f, s)
	case I16:
		s, _ := values.I16()
		err = writeChunkI16(w.f, s)
	case I32:
		s, _ := values.I32()
		err = writeChunkI32(w.f, s)
	case F32:
		s, _ := values.F32()
		err = writeChunkF32(w.f, s)
	case F64:
		s, _ := values.F64()
		err = writeChunkF64(w.f, s)
	default:
		return newError(TypeMismatch, "")
	}
	if err != nil {
		return asIoErr(err)
	}
	if pad := size - values.ByteSize(); pad > 0 {
		if _, err := w.f.Write(make([]byte, pad)); err != nil {
			return newIoError(err)
		}
	}
	return nil
}

// Close pads every variable the caller never passed to WriteVar with its
// type's default fill value, then closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.ds != nil {
		for _, v := range w.ds.vars {
			if w.written[v] {
				continue
			}
			if err := w.fillVar(v); err != nil {
				w.f.Close()
				return err
			}
		}
	}
	if err := w.f.Close(); err != nil {
		return newIoError(err)
	}
	return nil
}

func (w *Writer) fillVar(v *Variable) error {
	s := w.lay.slotFor(v)
	if s == nil {
		return nil
	}
	chunkLen := int(v.fixedTailElements())
	numChunks := 1
	if v.IsRecordVariable() {
		numChunks = int(w.ds.NumRecs())
	} else {
		chunkLen = int(v.elementCount())
	}
	fill := filledValues(v.dtype, chunkLen)
	for i := 0; i < numChunks; i++ {
		pos := s.begin
		if v.IsRecordVariable() {
			pos += int64(i) * w.lay.recordSize
		}
		if err := w.writeChunkAt(pos, fill, s.vsize); err != nil {
			return err
		}
	}
	return nil
}

func filledValues(t ElementType, n int) Values {
	switch t {
	case I8:
		s := make([]int8, n)
		fill := fillValue(I8).(int8)
		for i := range s {
			s[i] = fill
		}
		return NewI8Values(s)
	case U8:
		s := make([]uint8, n)
		fill := fillValue(U8).(uint8)
		for i := range s {
			s[i] = fill
		}
		return NewU8Values(s)
	case I16:
		s := make([]int16, n)
		fill := fillValue(I16).(int16)
		for i := range s {
			s[i] = fill
		}
		return NewI16Values(s)
	case I32:
		s := make([]int32, n)
		fill := fillValue(I32).(int32)
		for i := range s {
			s[i] = fill
		}
		return NewI32Values(s)
	case F32:
		s := make([]float32, n)
		fill := fillValue(F32).(float32)
		for i := range s {
			s[i] = fill
		}
		return NewF32Values(s)
	case F64:
		s := make([]float64, n)
		fill := fillValue(F64).(float64)
		for i := range s {
			s[i] = fill
		}
		return NewF64Values(s)
	default:
		return Values{}
	}
}

// slice returns the sub-range [start, start+n) of values as a freshly
// typed Values.
func slice(values Values, start, n int) (Values, error) {
	switch values.Type() {
	case I8:
		s, _ := values.I8()
		return NewI8Values(s[start : start+n]), nil
	case U8:
		s, _ := values.U8()
		return NewU8Values(s[start : start+n]), nil
	case I16:
		s, _ := values.I16()
		return NewI16Values(s[start : start+n]), nil
	case I32:
		s, _ := values.I32()
		return NewI32Values(s[start : start+n]), nil
	case F32:
		s, _ := values.F32()
		return NewF32Values(s[start : start+n]), nil
	case F64:
		s, _ := values.F64()
		return NewF64Values(s[start : start+n]), nil
	default:
		return Values{}, newError(TypeMismatch, "")
	}
}

func asIoErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return newIoError(err)
}
