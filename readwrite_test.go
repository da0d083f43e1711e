package netcdf3

import (
	"testing"

	"github.com/spf13/afero"
)

func TestWriteReadFixedVariableRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()

	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 4)
	ds.AddGlobalAttribute("title", NewU8Values([]byte("fixed variable file")))
	ds.AddVariable("temp", []string{"x"}, F64)

	w, err := Create(fs, "/fixed.nc", ds)
	if err != nil {
		t.Fatal(err)
	}
	want := NewF64Values([]float64{1, 2, 3, 4})
	if err := w.WriteVar("temp", want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(fs, "/fixed.nc")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := r.ReadVar("temp")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("got %#v, want %#v", got, want)
	}

	title := r.DataSet().GlobalAttribute("title")
	if title == nil {
		t.Fatal("global attribute did not survive the round trip")
	}
	u8, _ := title.Values().U8()
	if string(u8) != "fixed variable file" {
		t.Errorf("got title %q, want %q", string(u8), "fixed variable file")
	}
}

func TestWriteReadTwoRecordVariablesInterleaved(t *testing.T) {
	fs := afero.NewMemMapFs()

	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 2)
	ds.AddUnlimitedDimension("time")
	ds.AddVariable("a", []string{"time", "x"}, F64)
	ds.AddVariable("b", []string{"time", "x"}, I32)
	ds.SetNumRecs(3)

	w, err := Create(fs, "/interleaved.nc", ds)
	if err != nil {
		t.Fatal(err)
	}
	wantA := NewF64Values([]float64{1, 2, 3, 4, 5, 6})
	wantB := NewI32Values([]int32{10, 20, 30, 40, 50, 60})
	if err := w.WriteVar("a", wantA); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteVar("b", wantB); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(fs, "/interleaved.nc")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.DataSet().NumRecs() != 3 {
		t.Errorf("got NumRecs() = %d, want 3", r.DataSet().NumRecs())
	}
	gotA, err := r.ReadVar("a")
	if err != nil {
		t.Fatal(err)
	}
	if !gotA.Equal(wantA) {
		t.Errorf("var a: got %#v, want %#v", gotA, wantA)
	}
	gotB, err := r.ReadVar("b")
	if err != nil {
		t.Fatal(err)
	}
	if !gotB.Equal(wantB) {
		t.Errorf("var b: got %#v, want %#v", gotB, wantB)
	}
}

func TestWriteCloseFillsUnwrittenVariable(t *testing.T) {
	fs := afero.NewMemMapFs()

	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 3)
	ds.AddVariable("untouched", []string{"x"}, I16)

	w, err := Create(fs, "/fill.nc", ds)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(fs, "/fill.nc")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := r.ReadVar("untouched")
	if err != nil {
		t.Fatal(err)
	}
	want := NewI16Values([]int16{-32767, -32767, -32767})
	if !got.Equal(want) {
		t.Errorf("got %#v, want fill value %#v", got, want)
	}
}

func TestWriteVarPadsTrailingBlockToFourByteBoundary(t *testing.T) {
	fs := afero.NewMemMapFs()

	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 3)
	ds.AddVariable("v", []string{"x"}, I8)

	w, err := Create(fs, "/pad.nc", ds)
	if err != nil {
		t.Fatal(err)
	}
	hlen, err := headerLen(ds)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteVar("v", NewI8Values([]int8{1, 2, 3})); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := afero.ReadFile(fs, "/pad.nc")
	if err != nil {
		t.Fatal(err)
	}
	wantLen := hlen + 4 // 3 data bytes rounded up to a 4-byte boundary
	if int64(len(raw)) != wantLen {
		t.Fatalf("got file length %d, want %d (3-byte I8 block must be zero-padded to 4)", len(raw), wantLen)
	}
	if raw[len(raw)-1] != 0 {
		t.Errorf("trailing pad byte = %d, want 0", raw[len(raw)-1])
	}

	r, err := Open(fs, "/pad.nc")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := r.ReadVar("v")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(NewI8Values([]int8{1, 2, 3})) {
		t.Errorf("got %#v, want [1 2 3]", got)
	}
}

func TestWriteVarMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 4)
	ds.AddVariable("temp", []string{"x"}, F64)

	w, err := Create(fs, "/mismatch.nc", ds)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.WriteVar("temp", NewI32Values([]int32{1, 2, 3, 4})); kindOf(t, err) != VariableMismatch {
		t.Errorf("wrong type: got %v, want VariableMismatch", err)
	}
	if err := w.WriteVar("temp", NewF64Values([]float64{1, 2, 3})); kindOf(t, err) != VariableMismatch {
		t.Errorf("wrong length: got %v, want VariableMismatch", err)
	}
	if err := w.WriteVar("missing", NewF64Values([]float64{1})); kindOf(t, err) != VariableNotDefined {
		t.Errorf("unknown variable: got %v, want VariableNotDefined", err)
	}
}

func TestOpenBadMagic(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/bad.nc", []byte("not a netcdf file"), 0644)
	_, err := Open(fs, "/bad.nc")
	if kindOf(t, err) != HeaderInvalid {
		t.Errorf("got %v, want HeaderInvalid", err)
	}
}

func TestOffset64BitRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	ds := NewDataSet(Offset64Bit)
	ds.AddFixedDimension("x", 2)
	ds.AddVariable("v", []string{"x"}, F32)

	w, err := Create(fs, "/big.nc", ds)
	if err != nil {
		t.Fatal(err)
	}
	want := NewF32Values([]float32{1.5, -2.5})
	if err := w.WriteVar("v", want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(fs, "/big.nc")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.DataSet().Version() != Offset64Bit {
		t.Errorf("got version %v, want Offset64Bit", r.DataSet().Version())
	}
	got, err := r.ReadVar("v")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}
