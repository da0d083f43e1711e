package netcdf3

// Version selects the on-disk width of a variable's begin_offset field and,
// with it, the maximum representable file size.
type Version int

const (
	// Classic is NetCDF-3 version byte 1: 4-byte offsets, 2GiB ceiling.
	Classic Version = 1
	// Offset64Bit is NetCDF-3 version byte 2: 8-byte offsets.
	Offset64Bit Version = 2
)

func (v Version) String() string {
	switch v {
	case Classic:
		return "Classic"
	case Offset64Bit:
		return "Offset64Bit"
	default:
		return "Invalid"
	}
}

// offsetSize returns the width, in bytes, of the begin_offset field for v.
func (v Version) offsetSize() int {
	if v == Offset64Bit {
		return 8
	}
	return 4
}

// DataSet is the in-memory model of a NetCDF-3 file: a set of dimensions,
// global attributes and variables, kept mutually consistent across every
// mutating operation. A DataSet is constructed empty by NewDataSet,
// mutated by the Add/Rename/Remove methods, and either consumed by a
// Writer or produced, already populated, by a Reader.
//
// Every mutating method either succeeds or returns a *Error and leaves the
// DataSet exactly as it was.
type DataSet struct {
	version     Version
	dims        []*Dimension
	globalAttrs []*Attribute
	vars        []*Variable
	numRecs     int64
}

// NewDataSet returns an empty data-set targeting version.
func NewDataSet(version Version) *DataSet {
	return &DataSet{version: version}
}

// Version returns the data-set's format version.
func (ds *DataSet) Version() Version { return ds.version }

// NumRecs returns the data-set's current record count: the size reported
// by the unlimited dimension, if any.
func (ds *DataSet) NumRecs() int64 { return ds.numRecs }

// SetNumRecs sets the data-set's current record count. It is exported for
// use by callers assembling a data-set by hand before a write. A Reader sets
// it from the file it opens; a Writer does not set it, and uses the value
// ds.NumRecs() returns when SetDef is called.
func (ds *DataSet) SetNumRecs(n int64) { ds.numRecs = n }

// ----- dimensions -----

// Dimensions returns ds's dimensions in insertion order. The slice must not
// be modified by the caller.
func (ds *DataSet) Dimensions() []*Dimension { return ds.dims }

// Dimension returns the named dimension, or nil if none exists.
func (ds *DataSet) Dimension(name string) *Dimension {
	for _, d := range ds.dims {
		if d.name == name {
			return d
		}
	}
	return nil
}

// UnlimitedDimension returns ds's unlimited dimension, or nil if it has
// none.
func (ds *DataSet) UnlimitedDimension() *Dimension {
	for _, d := range ds.dims {
		if d.unlimited {
			return d
		}
	}
	return nil
}

func (ds *DataSet) dimNameUsed(name string) bool { return ds.Dimension(name) != nil }

// AddFixedDimension adds a fixed-size dimension to ds.
//
// Fails with InvalidName, NameAlreadyUsed or DimensionSizeOutOfRange.
func (ds *DataSet) AddFixedDimension(name string, size int64) (*Dimension, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if ds.dimNameUsed(name) {
		return nil, newError(NameAlreadyUsed, name)
	}
	if size < 1 || size > MaxDimSize {
		return nil, newError(DimensionSizeOutOfRange, name)
	}
	d := &Dimension{name: name, size: size}
	ds.dims = append(ds.dims, d)
	return d, nil
}

// AddUnlimitedDimension adds ds's unlimited (record) dimension.
//
// Fails with InvalidName, NameAlreadyUsed or UnlimitedAlreadyExists.
func (ds *DataSet) AddUnlimitedDimension(name string) (*Dimension, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if ds.dimNameUsed(name) {
		return nil, newError(NameAlreadyUsed, name)
	}
	if ds.UnlimitedDimension() != nil {
		return nil, newError(UnlimitedAlreadyExists, name)
	}
	d := &Dimension{name: name, unlimited: true}
	ds.dims = append(ds.dims, d)
	return d, nil
}

// RenameDimension renames the dimension named oldName to newName. Every
// variable referencing it observes the new name immediately, since
// variables hold a pointer to the Dimension, not its name.
//
// Fails with DimensionNotDefined, InvalidName or NameAlreadyUsed.
func (ds *DataSet) RenameDimension(oldName, newName string) error {
	d := ds.Dimension(oldName)
	if d == nil {
		return newError(DimensionNotDefined, oldName)
	}
	if oldName == newName {
		return nil
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if ds.dimNameUsed(newName) {
		return newError(NameAlreadyUsed, newName)
	}
	d.name = newName
	return nil
}

// RemoveDimension removes the named dimension.
//
// Fails with DimensionNotDefined or DimensionInUse.
func (ds *DataSet) RemoveDimension(name string) error {
	d := ds.Dimension(name)
	if d == nil {
		return newError(DimensionNotDefined, name)
	}
	for _, v := range ds.vars {
		if containsDim(v.dims, d) {
			return newError(DimensionInUse, name)
		}
	}
	for i, x := range ds.dims {
		if x == d {
			ds.dims = append(ds.dims[:i:i], ds.dims[i+1:]...)
			break
		}
	}
	return nil
}

// ----- global attributes -----

// GlobalAttributes returns ds's global attributes in insertion order. The
// slice must not be modified by the caller.
func (ds *DataSet) GlobalAttributes() []*Attribute { return ds.globalAttrs }

// GlobalAttribute returns the named global attribute, or nil if none
// exists.
func (ds *DataSet) GlobalAttribute(name string) *Attribute {
	return findAttribute(ds.globalAttrs, name)
}

// AddGlobalAttribute adds a global attribute to ds.
//
// Fails with InvalidName or NameAlreadyUsed.
func (ds *DataSet) AddGlobalAttribute(name string, values Values) (*Attribute, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if findAttribute(ds.globalAttrs, name) != nil {
		return nil, newError(NameAlreadyUsed, name)
	}
	a := &Attribute{name: name, values: values}
	ds.globalAttrs = append(ds.globalAttrs, a)
	return a, nil
}

// RenameGlobalAttribute renames a global attribute.
//
// Fails with GlobalAttributeNotDefined, InvalidName or NameAlreadyUsed.
func (ds *DataSet) RenameGlobalAttribute(oldName, newName string) error {
	a := findAttribute(ds.globalAttrs, oldName)
	if a == nil {
		return newError(GlobalAttributeNotDefined, oldName)
	}
	if oldName == newName {
		return nil
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if findAttribute(ds.globalAttrs, newName) != nil {
		return newError(NameAlreadyUsed, newName)
	}
	a.name = newName
	return nil
}

// RemoveGlobalAttribute removes a global attribute.
//
// Fails with GlobalAttributeNotDefined.
func (ds *DataSet) RemoveGlobalAttribute(name string) error {
	i := indexOfAttribute(ds.globalAttrs, name)
	if i < 0 {
		return newError(GlobalAttributeNotDefined, name)
	}
	ds.globalAttrs = append(ds.globalAttrs[:i:i], ds.globalAttrs[i+1:]...)
	return nil
}

// ----- variables -----

// Variables returns ds's variables in insertion order. The slice must not
// be modified by the caller.
func (ds *DataSet) Variables() []*Variable { return ds.vars }

// Variable returns the named variable, or nil if none exists.
func (ds *DataSet) Variable(name string) *Variable {
	return findVariable(ds.vars, name)
}

// AddVariable adds a variable with the given element type, shaped along
// the named dimensions (in order). At most one dimension may be the
// unlimited dimension, and then only in the first position.
//
// Fails with InvalidName, NameAlreadyUsed, UndefinedDimension,
// UnlimitedDimensionMustBeFirst, TooManyDimensions or
// DuplicatedDimensionReferences.
func (ds *DataSet) AddVariable(name string, dimNames []string, dtype ElementType) (*Variable, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if findVariable(ds.vars, name) != nil {
		return nil, newError(NameAlreadyUsed, name)
	}
	if len(dimNames) > MaxVarDims {
		return nil, newError(TooManyDimensions, name)
	}
	dims := make([]*Dimension, len(dimNames))
	for i, dn := range dimNames {
		d := ds.Dimension(dn)
		if d == nil {
			return nil, newError(UndefinedDimension, dn)
		}
		if d.unlimited && i != 0 {
			return nil, newError(UnlimitedDimensionMustBeFirst, name)
		}
		dims[i] = d
	}
	for i := 0; i < len(dims); i++ {
		for j := i + 1; j < len(dims); j++ {
			if dims[i] == dims[j] {
				return nil, newError(DuplicatedDimensionReferences, name)
			}
		}
	}
	v := &Variable{name: name, dims: dims, dtype: dtype}
	ds.vars = append(ds.vars, v)
	return v, nil
}

// RenameVariable renames a variable.
//
// Fails with VariableNotDefined, InvalidName or NameAlreadyUsed.
func (ds *DataSet) RenameVariable(oldName, newName string) error {
	v := findVariable(ds.vars, oldName)
	if v == nil {
		return newError(VariableNotDefined, oldName)
	}
	if oldName == newName {
		return nil
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if findVariable(ds.vars, newName) != nil {
		return newError(NameAlreadyUsed, newName)
	}
	v.name = newName
	return nil
}

// RemoveVariable removes a variable.
//
// Fails with VariableNotDefined.
func (ds *DataSet) RemoveVariable(name string) error {
	i := indexOfVariable(ds.vars, name)
	if i < 0 {
		return newError(VariableNotDefined, name)
	}
	ds.vars = append(ds.vars[:i:i], ds.vars[i+1:]...)
	return nil
}

// ----- variable attributes -----

// AddVariableAttribute adds an attribute to the named variable.
//
// Fails with VariableNotDefined, InvalidName or NameAlreadyUsed.
func (ds *DataSet) AddVariableAttribute(varName, attrName string, values Values) (*Attribute, error) {
	v := findVariable(ds.vars, varName)
	if v == nil {
		return nil, newError(VariableNotDefined, varName)
	}
	if err := validateName(attrName); err != nil {
		return nil, err
	}
	if findAttribute(v.attrs, attrName) != nil {
		return nil, newError(NameAlreadyUsed, attrName)
	}
	a := &Attribute{name: attrName, values: values}
	v.attrs = append(v.attrs, a)
	return a, nil
}

// RenameVariableAttribute renames an attribute of the named variable.
//
// Fails with VariableNotDefined, VariableAttributeNotDefined, InvalidName
// or NameAlreadyUsed.
func (ds *DataSet) RenameVariableAttribute(varName, oldName, newName string) error {
	v := findVariable(ds.vars, varName)
	if v == nil {
		return newError(VariableNotDefined, varName)
	}
	a := findAttribute(v.attrs, oldName)
	if a == nil {
		return newError(VariableAttributeNotDefined, oldName)
	}
	if oldName == newName {
		return nil
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if findAttribute(v.attrs, newName) != nil {
		return newError(NameAlreadyUsed, newName)
	}
	a.name = newName
	return nil
}

// RemoveVariableAttribute removes an attribute from the named variable.
//
// Fails with VariableNotDefined or VariableAttributeNotDefined.
func (ds *DataSet) RemoveVariableAttribute(varName, attrName string) error {
	v := findVariable(ds.vars, varName)
	if v == nil {
		return newError(VariableNotDefined, varName)
	}
	i := indexOfAttribute(v.attrs, attrName)
	if i < 0 {
		return newError(VariableAttributeNotDefined, attrName)
	}
	v.attrs = append(v.attrs[:i:i], v.attrs[i+1:]...)
	return nil
}
