package netcdf3

import (
	"encoding/binary"
	"io"

	"github.com/spf13/afero"
)

// Reader reads a NetCDF-3 file back into a DataSet, pulling each
// variable's data in on demand: the header (and so the data-set's shape)
// is parsed eagerly by Open, but no variable payload is read from disk
// until ReadVar, ReadVars or ReadAllVars asks for it.
type Reader struct {
	fs     afero.Fs
	f      afero.File
	ds     *DataSet
	lay    *layout
	values map[*Variable]Values
	closed bool
}

// Open parses the header of the file at path on fs and returns a Reader
// positioned to read variable data. The returned DataSet's NumRecs is
// resolved immediately: if the on-disk numrecs field is the
// indeterminate marker, it is inferred from the file's size.
//
// Fails with IoError or HeaderInvalid.
func Open(fs afero.Fs, path string) (*Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, newIoError(err)
	}

	ds, lay, rawNumrecs, err := decodeHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if rawNumrecs == numrecsIndeterminate {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, newIoError(err)
		}
		ds.numRecs = inferNumRecs(info.Size(), lay.recordStart(), lay.recordSize)
	} else {
		ds.numRecs = int64(rawNumrecs)
	}

	return &Reader{fs: fs, f: f, ds: ds, lay: lay, values: make(map[*Variable]Values)}, nil
}

// DataSet returns the data-set described by the file's header. It holds no
// variable payloads; those are returned by ReadVar.
func (r *Reader) DataSet() *DataSet { return r.ds }

// ReadVar reads the named variable's complete data (every record, for a
// record variable) from disk, caching it so that later calls for the same
// variable (including those made by ReadVars and ReadAllVars) return the
// cached values without reading the file again.
//
// Fails with VariableNotDefined, UnexpectedEndOfFile or IoError.
func (r *Reader) ReadVar(name string) (Values, error) {
	v := r.ds.Variable(name)
	if v == nil {
		return Values{}, newError(VariableNotDefined, name)
	}
	if cached, ok := r.values[v]; ok {
		return cached, nil
	}

	s := r.lay.slotFor(v)
	if s == nil {
		return Values{}, newError(VariableNotDefined, name)
	}

	var values Values
	var err error
	if v.IsRecordVariable() {
		values, err = r.readRecordVar(v, s)
	} else {
		values, err = r.readFixedVar(v, s)
	}
	if err != nil {
		return Values{}, err
	}
	r.values[v] = values
	return values, nil
}

// ReadVars reads each named variable, stopping at the first error.
func (r *Reader) ReadVars(names []string) error {
	for _, name := range names {
		if _, err := r.ReadVar(name); err != nil {
			return err
		}
	}
	return nil
}

// ReadAllVars reads every variable in the data-set.
func (r *Reader) ReadAllVars() error {
	for _, v := range r.ds.vars {
		if _, err := r.ReadVar(v.name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readFixedVar(v *Variable, s *slot) (Values, error) {
	n := int(v.elementCount())
	return r.readChunkAt(v.dtype, s.begin, n)
}

func (r *Reader) readRecordVar(v *Variable, s *slot) (Values, error) {
	chunkLen := int(v.fixedTailElements())
	numRecs := int(r.ds.numRecs)

	acc := filledValues(v.dtype, 0)
	for i := 0; i < numRecs; i++ {
		pos := s.begin + int64(i)*r.lay.recordSize
		chunk, err := r.readChunkAt(v.dtype, pos, chunkLen)
		if err != nil {
			return Values{}, err
		}
		acc, err = concat(acc, chunk)
		if err != nil {
			return Values{}, err
		}
	}
	return acc, nil
}

func (r *Reader) readChunkAt(dtype ElementType, pos int64, n int) (Values, error) {
	if _, err := r.f.Seek(pos, io.SeekStart); err != nil {
		return Values{}, newIoError(err)
	}
	switch dtype {
	case I8:
		v := make([]int8, n)
		if err := binary.Read(r.f, binary.BigEndian, v); err != nil {
			return Values{}, eofOr(err)
		}
		return NewI8Values(v), nil
	case U8:
		v := make([]uint8, n)
		if _, err := io.ReadFull(r.f, v); err != nil {
			return Values{}, eofOr(err)
		}
		return NewU8Values(v), nil
	case I16:
		v := make([]int16, n)
		if err := binary.Read(r.f, binary.BigEndian, v); err != nil {
			return Values{}, eofOr(err)
		}
		return NewI16Values(v), nil
	case I32:
		v := make([]int32, n)
		if err := binary.Read(r.f, binary.BigEndian, v); err != nil {
			return Values{}, eofOr(err)
		}
		return NewI32Values(v), nil
	case F32:
		v := make([]float32, n)
		if err := binary.Read(r.f, binary.BigEndian, v); err != nil {
			return Values{}, eofOr(err)
		}
		return NewF32Values(v), nil
	case F64:
		v := make([]float64, n)
		if err := binary.Read(r.f, binary.BigEndian, v); err != nil {
			return Values{}, eofOr(err)
		}
		return NewF64Values(v), nil
	default:
		return Values{}, newError(TypeMismatch, "")
	}
}

func eofOr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &Error{Kind: UnexpectedEndOfFile, Err: err}
	}
	return newIoError(err)
}

// concat appends b's elements to a, both of the same element type.
func concat(a, b Values) (Values, error) {
	switch a.Type() {
	case I8:
		as, _ := a.I8()
		bs, _ := b.I8()
		return NewI8Values(append(as, bs...)), nil
	case U8:
		as, _ := a.U8()
		bs, _ := b.U8()
		return NewU8Values(append(as, bs...)), nil
	case I16:
		as, _ := a.I16()
		bs, _ := b.I16()
		return NewI16Values(append(as, bs...)), nil
	case I32:
		as, _ := a.I32()
		bs, _ := b.I32()
		return NewI32Values(append(as, bs...)), nil
	case F32:
		as, _ := a.F32()
		bs, _ := b.F32()
		return NewF32Values(append(as, bs...)), nil
	case F64:
		as, _ := a.F64()
		bs, _ := b.F64()
		return NewF64Values(append(as, bs...)), nil
	default:
		return Values{}, newError(TypeMismatch, "")
	}
}

// Close closes the underlying file and returns the data-set it parsed.
func (r *Reader) Close() (*DataSet, error) {
	if r.closed {
		return r.ds, nil
	}
	r.closed = true
	if err := r.f.Close(); err != nil {
		return r.ds, newIoError(err)
	}
	return r.ds, nil
}
