package netcdf3

import (
	"encoding/binary"
	"io"

	"github.com/spatialmodel/netcdf3/internal/codec"
)

const (
	tagZero = 0
	tagDims = 10
	tagVars = 11
	tagAttr = 12
)

// numrecsIndeterminate is the marker NetCDF-3 writers use in place of a
// concrete record count; see inferNumRecs.
const numrecsIndeterminate = -1 // 0xFFFFFFFF as an int32

var magic = [3]byte{'C', 'D', 'F'}

// nullWriter discards everything written to it while counting bytes, used
// to measure a header's encoded length before its begin offsets are known.
type nullWriter struct{ n int64 }

func (w *nullWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// headerLen returns the number of bytes encodeHeader would write for ds,
// using placeholder (zero) begin offsets: the begin field's width depends
// only on ds.version, not on its value, so this is exact.
func headerLen(ds *DataSet) (int64, error) {
	var nw nullWriter
	if err := encodeHeader(&nw, ds, nil); err != nil {
		return 0, err
	}
	return nw.n, nil
}

// encodeHeader writes ds's header to w. lay supplies the begin/vsize for
// each variable; if lay is nil, every begin and vsize is written as zero
// (used only to measure the header's length).
func encodeHeader(w io.Writer, ds *DataSet, lay *layout) error {
	if err := binary.Write(w, binary.BigEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, byte(ds.version)); err != nil {
		return err
	}

	numrecs := int32(ds.numRecs)
	if err := binary.Write(w, binary.BigEndian, numrecs); err != nil {
		return err
	}

	if err := writeDimList(w, ds.dims); err != nil {
		return err
	}
	if err := writeAttrList(w, ds.globalAttrs); err != nil {
		return err
	}
	if err := writeVarList(w, ds, lay); err != nil {
		return err
	}
	return nil
}

func writeDimList(w io.Writer, dims []*Dimension) error {
	if len(dims) == 0 {
		return binary.Write(w, binary.BigEndian, [2]int32{tagZero, 0})
	}
	if err := binary.Write(w, binary.BigEndian, [2]int32{tagDims, int32(len(dims))}); err != nil {
		return err
	}
	for _, d := range dims {
		if err := codec.WriteBlock(w, []byte(d.name)); err != nil {
			return err
		}
		size := int32(0)
		if !d.unlimited {
			size = int32(d.size)
		}
		if err := binary.Write(w, binary.BigEndian, size); err != nil {
			return err
		}
	}
	return nil
}

func writeAttrList(w io.Writer, attrs []*Attribute) error {
	if len(attrs) == 0 {
		return binary.Write(w, binary.BigEndian, [2]int32{tagZero, 0})
	}
	if err := binary.Write(w, binary.BigEndian, [2]int32{tagAttr, int32(len(attrs))}); err != nil {
		return err
	}
	for _, a := range attrs {
		if err := writeAttr(w, a); err != nil {
			return err
		}
	}
	return nil
}

func writeAttr(w io.Writer, a *Attribute) error {
	if err := codec.WriteBlock(w, []byte(a.name)); err != nil {
		return err
	}
	v := a.values
	if err := binary.Write(w, binary.BigEndian, int32(v.Type())); err != nil {
		return err
	}
	switch v.Type() {
	case I8:
		s, _ := v.I8()
		return codec.WriteI8(w, s)
	case U8:
		s, _ := v.U8()
		return codec.WriteU8(w, s)
	case I16:
		s, _ := v.I16()
		return codec.WriteI16Attr(w, s)
	case I32:
		s, _ := v.I32()
		return codec.WriteI32(w, s)
	case F32:
		s, _ := v.F32()
		return codec.WriteF32(w, s)
	case F64:
		s, _ := v.F64()
		return codec.WriteF64(w, s)
	default:
		return newHeaderError(BadDataType, nil)
	}
}

func writeVarList(w io.Writer, ds *DataSet, lay *layout) error {
	vars := ds.vars
	if len(vars) == 0 {
		return binary.Write(w, binary.BigEndian, [2]int32{tagZero, 0})
	}
	if err := binary.Write(w, binary.BigEndian, [2]int32{tagVars, int32(len(vars))}); err != nil {
		return err
	}
	for _, v := range vars {
		if err := writeVar(w, ds, v, lay); err != nil {
			return err
		}
	}
	return nil
}

func writeVar(w io.Writer, ds *DataSet, v *Variable, lay *layout) error {
	if err := codec.WriteBlock(w, []byte(v.name)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(len(v.dims))); err != nil {
		return err
	}
	for _, d := range v.dims {
		idx := indexOfDimension(ds.dims, d)
		if err := binary.Write(w, binary.BigEndian, int32(idx)); err != nil {
			return err
		}
	}
	if err := writeAttrList(w, v.attrs); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(v.dtype)); err != nil {
		return err
	}

	var begin, vsize int64
	if lay != nil {
		if s := lay.slotFor(v); s != nil {
			begin, vsize = s.begin, s.vsize
		}
	}
	vsize32 := int32(vsize)
	if vsize > 1<<31-1 {
		vsize32 = numrecsIndeterminate // too large for the field: 0xFFFFFFFF
	}
	if err := binary.Write(w, binary.BigEndian, vsize32); err != nil {
		return err
	}
	if ds.version == Offset64Bit {
		return binary.Write(w, binary.BigEndian, begin)
	}
	return binary.Write(w, binary.BigEndian, int32(begin))
}

func indexOfDimension(dims []*Dimension, d *Dimension) int {
	for i, x := range dims {
		if x == d {
			return i
		}
	}
	return -1
}

// decodeHeader reads a NetCDF-3 header from r and returns the populated
// data-set, the layout exactly as recorded on disk (begin/vsize come from
// the file, not from a fresh plan, so reading honors whatever packing the
// writer that produced the file used), and the raw numrecs field exactly
// as it appeared on disk (the caller resolves the indeterminate marker
// once it knows the file's length). Fails with HeaderInvalid
// (InconsistentNumRecs) if numrecs is neither the indeterminate marker
// nor consistent with whether the data-set has an unlimited dimension
// (negative, or nonzero with no unlimited dimension to count records of).
func decodeHeader(r io.Reader) (*DataSet, *layout, int32, error) {
	var m [3]byte
	if err := binary.Read(r, binary.BigEndian, &m); err != nil {
		return nil, nil, 0, newIoError(err)
	}
	if m != magic {
		return nil, nil, 0, newHeaderError(BadMagic, nil)
	}

	var vb byte
	if err := binary.Read(r, binary.BigEndian, &vb); err != nil {
		return nil, nil, 0, newIoError(err)
	}
	version := Version(vb)
	if version != Classic && version != Offset64Bit {
		return nil, nil, 0, newHeaderError(BadVersion, nil)
	}

	var numrecs int32
	if err := binary.Read(r, binary.BigEndian, &numrecs); err != nil {
		return nil, nil, 0, newIoError(err)
	}

	ds := NewDataSet(version)

	dims, err := readDimList(r)
	if err != nil {
		return nil, nil, 0, err
	}
	ds.dims = dims
	seenUnlimited := false
	for _, d := range dims {
		if d.unlimited {
			if seenUnlimited {
				return nil, nil, 0, newHeaderError(MultipleUnlimitedDimensions, nil)
			}
			seenUnlimited = true
		}
	}
	if numrecs != numrecsIndeterminate {
		if numrecs < 0 || (!seenUnlimited && numrecs != 0) {
			return nil, nil, 0, newHeaderError(InconsistentNumRecs, nil)
		}
	}

	attrs, err := readAttrList(r)
	if err != nil {
		return nil, nil, 0, err
	}
	ds.globalAttrs = attrs

	vars, slots, err := readVarList(r, ds)
	if err != nil {
		return nil, nil, 0, err
	}
	ds.vars = vars

	lay := &layout{slots: slots}
	for _, v := range vars {
		if v.IsRecordVariable() {
			lay.recordVars = append(lay.recordVars, v)
			lay.recordSize += lay.slotFor(v).vsize
		} else {
			lay.fixedVars = append(lay.fixedVars, v)
		}
	}

	return ds, lay, numrecs, nil
}

func readTagCount(r io.Reader) (int32, int32, error) {
	var tc [2]int32
	if err := binary.Read(r, binary.BigEndian, &tc); err != nil {
		return 0, 0, newIoError(err)
	}
	if tc[1] < 0 {
		return 0, 0, newHeaderError(BadLength, nil)
	}
	return tc[0], tc[1], nil
}

func readDimList(r io.Reader) ([]*Dimension, error) {
	tag, n, err := readTagCount(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if tag != tagDims {
		return nil, newHeaderError(BadTag, nil)
	}
	dims := make([]*Dimension, n)
	for i := range dims {
		nameBytes, err := codec.ReadBlock(r)
		if err != nil {
			return nil, newIoError(err)
		}
		var size int32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, newIoError(err)
		}
		dims[i] = &Dimension{name: string(nameBytes), unlimited: size == 0, size: int64(size)}
	}
	return dims, nil
}

func readAttrList(r io.Reader) ([]*Attribute, error) {
	tag, n, err := readTagCount(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if tag != tagAttr {
		return nil, newHeaderError(BadTag, nil)
	}
	attrs := make([]*Attribute, n)
	for i := range attrs {
		a, err := readAttr(r)
		if err != nil {
			return nil, err
		}
		attrs[i] = a
	}
	return attrs, nil
}

func readAttr(r io.Reader) (*Attribute, error) {
	nameBytes, err := codec.ReadBlock(r)
	if err != nil {
		return nil, newIoError(err)
	}
	var dt int32
	if err := binary.Read(r, binary.BigEndian, &dt); err != nil {
		return nil, newIoError(err)
	}
	dtype := ElementType(dt)
	if !dtype.Valid() {
		return nil, newHeaderError(BadDataType, nil)
	}

	var nelems int32
	if err := binary.Read(r, binary.BigEndian, &nelems); err != nil {
		return nil, newIoError(err)
	}
	if nelems < 0 {
		return nil, newHeaderError(BadLength, nil)
	}

	var values Values
	switch dtype {
	case I8:
		s, err := codec.ReadI8(r, nelems)
		if err != nil {
			return nil, newIoError(err)
		}
		values = NewI8Values(s)
	case U8:
		s, err := codec.ReadU8(r, nelems)
		if err != nil {
			return nil, newIoError(err)
		}
		values = NewU8Values(s)
	case I16:
		s, err := codec.ReadI16Attr(r, nelems)
		if err != nil {
			return nil, newIoError(err)
		}
		values = NewI16Values(s)
	case I32:
		s, err := codec.ReadI32(r, nelems)
		if err != nil {
			return nil, newIoError(err)
		}
		values = NewI32Values(s)
	case F32:
		s, err := codec.ReadF32(r, nelems)
		if err != nil {
			return nil, newIoError(err)
		}
		values = NewF32Values(s)
	case F64:
		s, err := codec.ReadF64(r, nelems)
		if err != nil {
			return nil, newIoError(err)
		}
		values = NewF64Values(s)
	}

	return &Attribute{name: string(nameBytes), values: values}, nil
}

func readVarList(r io.Reader, ds *DataSet) ([]*Variable, []slot, error) {
	tag, n, err := readTagCount(r)
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, nil
	}
	if tag != tagVars {
		return nil, nil, newHeaderError(BadTag, nil)
	}
	vars := make([]*Variable, n)
	slots := make([]slot, n)
	for i := range vars {
		v, s, err := readVar(r, ds)
		if err != nil {
			return nil, nil, err
		}
		vars[i] = v
		slots[i] = s
	}
	return vars, slots, nil
}

func readVar(r io.Reader, ds *DataSet) (*Variable, slot, error) {
	nameBytes, err := codec.ReadBlock(r)
	if err != nil {
		return nil, slot{}, newIoError(err)
	}

	var ndims int32
	if err := binary.Read(r, binary.BigEndian, &ndims); err != nil {
		return nil, slot{}, newIoError(err)
	}
	if ndims < 0 {
		return nil, slot{}, newHeaderError(BadLength, nil)
	}
	dimIdx := make([]int32, ndims)
	if err := binary.Read(r, binary.BigEndian, dimIdx); err != nil {
		return nil, slot{}, newIoError(err)
	}
	dims := make([]*Dimension, ndims)
	for i, idx := range dimIdx {
		if idx < 0 || int(idx) >= len(ds.dims) {
			return nil, slot{}, newHeaderError(InvalidDimensionReference, nil)
		}
		dims[i] = ds.dims[idx]
	}

	attrs, err := readAttrList(r)
	if err != nil {
		return nil, slot{}, err
	}

	var dt int32
	if err := binary.Read(r, binary.BigEndian, &dt); err != nil {
		return nil, slot{}, newIoError(err)
	}
	dtype := ElementType(dt)
	if !dtype.Valid() {
		return nil, slot{}, newHeaderError(BadDataType, nil)
	}

	var vsize int32
	if err := binary.Read(r, binary.BigEndian, &vsize); err != nil {
		return nil, slot{}, newIoError(err)
	}

	var begin int64
	if ds.version == Offset64Bit {
		if err := binary.Read(r, binary.BigEndian, &begin); err != nil {
			return nil, slot{}, newIoError(err)
		}
	} else {
		var b32 int32
		if err := binary.Read(r, binary.BigEndian, &b32); err != nil {
			return nil, slot{}, newIoError(err)
		}
		begin = int64(b32)
	}

	v := &Variable{name: string(nameBytes), dims: dims, dtype: dtype, attrs: attrs}
	return v, slot{v: v, begin: begin, vsize: int64(vsize)}, nil
}
