package netcdf3

// MaxDimSize is the largest size a fixed (non-unlimited) dimension may
// have (NC_MAX_DIM_SIZE).
const MaxDimSize = 2_147_483_644

// Dimension is a named axis a variable can be shaped along. A Dimension is
// owned by exactly one DataSet; variables reference it by this pointer, not
// by name, so renaming it is O(1) and never breaks a reference.
type Dimension struct {
	name      string
	size      int64
	unlimited bool
}

// Name returns d's current name.
func (d *Dimension) Name() string { return d.name }

// Unlimited reports whether d is the data-set's unlimited (record)
// dimension.
func (d *Dimension) Unlimited() bool { return d.unlimited }

// FixedSize returns d's declared size and true, or (0, false) if d is the
// unlimited dimension (whose size is a property of the data-set, not of
// the dimension: see DataSet.NumRecs).
func (d *Dimension) FixedSize() (int64, bool) {
	if d.unlimited {
		return 0, false
	}
	return d.size, true
}
