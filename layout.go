package netcdf3

// pad4 rounds n up to the next multiple of 4, the alignment NetCDF-3 uses
// for every name, attribute and variable-data block.
func pad4(n int64) int64 {
	if r := n % 4; r != 0 {
		return n + (4 - r)
	}
	return n
}

// slot describes where one variable's data lives in the file: a byte
// offset from the start of the file, and the size in bytes of one "slab"
// -- the whole array for a fixed variable, one record's worth for a record
// variable. The size is padded to a multiple of 4, except for the lone
// record variable of a data-set that has exactly one (see planLayout).
type slot struct {
	v     *Variable
	begin int64
	vsize int64
}

// layout is the fully planned physical placement of every variable in a
// data-set: the header length, the fixed-data region, and the
// interleaved record region.
type layout struct {
	headerLen     int64
	slots         []slot
	recordSize    int64 // sum of every record variable's vsize
	fixedVars     []*Variable
	recordVars    []*Variable
}

// planLayout computes the on-disk placement of every variable in ds, given
// an already-serialized header length (the caller knows this only once
// the header's non-offset fields are encoded, since begin depends on
// headerLen). It implements the NetCDF-3 classic layout algorithm: fixed
// variables are packed first, in declaration order, immediately after the
// header; record variables follow, each contributing one padded slab per
// record, interleaved record-by-record.
//
// fixRecordStrides' quirk: when there is exactly one record variable, its
// vsize is the true (unpadded) slab size, not rounded up to a multiple of
// 4 -- since with only one record variable there is nothing to interleave
// it with, and the file can save the padding.
func planLayout(ds *DataSet, headerLen int64) (*layout, error) {
	lay := &layout{headerLen: headerLen}
	for _, v := range ds.vars {
		if v.IsRecordVariable() {
			lay.recordVars = append(lay.recordVars, v)
		} else {
			lay.fixedVars = append(lay.fixedVars, v)
		}
	}

	maxOffset := int64(1)<<31 - 1
	if ds.version == Offset64Bit {
		maxOffset = 1<<63 - 1
	}

	offset := headerLen
	for _, v := range lay.fixedVars {
		size := v.elementCount() * int64(v.dtype.Size())
		vsize := pad4(size)
		if offset > maxOffset {
			return nil, newError(FileSizeExceeded, v.name)
		}
		lay.slots = append(lay.slots, slot{v: v, begin: offset, vsize: vsize})
		offset += vsize
	}

	var recordSize int64
	singleRecordVar := len(lay.recordVars) == 1
	for _, v := range lay.recordVars {
		size := v.fixedTailElements() * int64(v.dtype.Size())
		vsize := pad4(size)
		if singleRecordVar {
			vsize = size
		}
		if offset > maxOffset {
			return nil, newError(FileSizeExceeded, v.name)
		}
		lay.slots = append(lay.slots, slot{v: v, begin: offset, vsize: vsize})
		offset += vsize
		recordSize += vsize
	}
	lay.recordSize = recordSize

	if ds.numRecs > 0 {
		lastByte := offset + (ds.numRecs-1)*recordSize
		if recordSize > 0 && lastByte > maxOffset {
			return nil, newError(FileSizeExceeded, "")
		}
	}

	return lay, nil
}

// slotFor returns the slot planned for v, or nil if v has none (should not
// happen for a variable drawn from the same data-set the layout was built
// from).
func (lay *layout) slotFor(v *Variable) *slot {
	for i := range lay.slots {
		if lay.slots[i].v == v {
			return &lay.slots[i]
		}
	}
	return nil
}

// recordStart returns the file offset at which the record region begins,
// i.e. the begin offset of the first record variable's first slab. It is
// zero if there are no record variables.
func (lay *layout) recordStart() int64 {
	for _, s := range lay.slots {
		if s.v.IsRecordVariable() {
			return s.begin
		}
	}
	return 0
}

// inferNumRecs implements the file-size-based numrecs inference policy
// used when a header declares numrecs as the indeterminate marker
// (0xFFFFFFFF): the record count is the number of whole records that fit
// between the start of the record region and the end of the file,
// rounded down, or zero if the file is smaller than the record region's
// start or there are no record variables.
func inferNumRecs(fileSize int64, recordStart, recordSize int64) int64 {
	if recordSize <= 0 || fileSize < recordStart {
		return 0
	}
	return (fileSize - recordStart) / recordSize
}
