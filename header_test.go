package netcdf3

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTripEmptyDataSet(t *testing.T) {
	ds := NewDataSet(Classic)
	roundTripHeader(t, ds)
}

func TestHeaderRoundTripDimsAttrsVars(t *testing.T) {
	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 3)
	ds.AddUnlimitedDimension("time")
	ds.AddGlobalAttribute("title", NewU8Values([]byte("a test file")))
	v, _ := ds.AddVariable("temp", []string{"time", "x"}, F32)
	ds.AddVariableAttribute("temp", "units", NewI16Values([]int16{1, -2, 3}))
	_ = v
	roundTripHeader(t, ds)
}

// roundTripHeader encodes ds's header, decodes it back, and checks that
// every dimension, attribute and variable survives unchanged.
func roundTripHeader(t *testing.T, ds *DataSet) {
	t.Helper()
	hlen, err := headerLen(ds)
	if err != nil {
		t.Fatal(err)
	}
	lay, err := planLayout(ds, hlen)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := encodeHeader(&buf, ds, lay); err != nil {
		t.Fatal(err)
	}
	if int64(buf.Len()) != hlen {
		t.Errorf("encoded header length = %d, want %d (as predicted by headerLen)", buf.Len(), hlen)
	}

	got, _, _, err := decodeHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Dimensions()) != len(ds.Dimensions()) {
		t.Fatalf("got %d dimensions, want %d", len(got.Dimensions()), len(ds.Dimensions()))
	}
	for i, d := range ds.Dimensions() {
		gd := got.Dimensions()[i]
		if gd.Name() != d.Name() || gd.Unlimited() != d.Unlimited() {
			t.Errorf("dim %d = %+v, want %+v", i, gd, d)
		}
		if !d.Unlimited() {
			wantSize, _ := d.FixedSize()
			gotSize, _ := gd.FixedSize()
			if gotSize != wantSize {
				t.Errorf("dim %d size = %d, want %d", i, gotSize, wantSize)
			}
		}
	}

	if len(got.GlobalAttributes()) != len(ds.GlobalAttributes()) {
		t.Fatalf("got %d global attrs, want %d", len(got.GlobalAttributes()), len(ds.GlobalAttributes()))
	}
	for i, a := range ds.GlobalAttributes() {
		ga := got.GlobalAttributes()[i]
		if ga.Name() != a.Name() || !ga.Values().Equal(a.Values()) {
			t.Errorf("global attr %d = %+v, want %+v", i, ga, a)
		}
	}

	if len(got.Variables()) != len(ds.Variables()) {
		t.Fatalf("got %d variables, want %d", len(got.Variables()), len(ds.Variables()))
	}
	for i, v := range ds.Variables() {
		gv := got.Variables()[i]
		if gv.Name() != v.Name() || gv.Type() != v.Type() {
			t.Errorf("var %d = %+v, want %+v", i, gv, v)
		}
		for j, d := range v.Dimensions() {
			if gv.Dimensions()[j].Name() != d.Name() {
				t.Errorf("var %d dim %d = %q, want %q", i, j, gv.Dimensions()[j].Name(), d.Name())
			}
		}
		for j, a := range v.Attributes() {
			ga := gv.Attributes()[j]
			if ga.Name() != a.Name() || !ga.Values().Equal(a.Values()) {
				t.Errorf("var %d attr %d = %+v, want %+v", i, j, ga, a)
			}
		}
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	_, _, _, err := decodeHeader(bytes.NewReader([]byte("NOT A CDF HEADER AT ALL....")))
	if kindOf(t, err) != HeaderInvalid {
		t.Fatalf("got %v, want HeaderInvalid", err)
	}
}

func TestDecodeHeaderInconsistentNumRecsNegative(t *testing.T) {
	ds := NewDataSet(Classic)
	ds.AddUnlimitedDimension("time")
	ds.SetNumRecs(-2)

	var buf bytes.Buffer
	hlen, err := headerLen(ds)
	if err != nil {
		t.Fatal(err)
	}
	lay, err := planLayout(ds, hlen)
	if err != nil {
		t.Fatal(err)
	}
	if err := encodeHeader(&buf, ds, lay); err != nil {
		t.Fatal(err)
	}

	_, _, _, err = decodeHeader(&buf)
	e, ok := err.(*Error)
	if !ok || e.Kind != HeaderInvalid || e.SubKind != InconsistentNumRecs {
		t.Fatalf("got %v, want HeaderInvalid(InconsistentNumRecs)", err)
	}
}

func TestDecodeHeaderInconsistentNumRecsNoUnlimitedDim(t *testing.T) {
	ds := NewDataSet(Classic)
	ds.AddFixedDimension("x", 3)
	ds.SetNumRecs(4)

	var buf bytes.Buffer
	hlen, err := headerLen(ds)
	if err != nil {
		t.Fatal(err)
	}
	lay, err := planLayout(ds, hlen)
	if err != nil {
		t.Fatal(err)
	}
	if err := encodeHeader(&buf, ds, lay); err != nil {
		t.Fatal(err)
	}

	_, _, _, err = decodeHeader(&buf)
	e, ok := err.(*Error)
	if !ok || e.Kind != HeaderInvalid || e.SubKind != InconsistentNumRecs {
		t.Fatalf("got %v, want HeaderInvalid(InconsistentNumRecs)", err)
	}
}

func TestI16AttributeSignExtensionOnWire(t *testing.T) {
	ds := NewDataSet(Classic)
	ds.AddGlobalAttribute("level", NewI16Values([]int16{-1}))

	var buf bytes.Buffer
	if err := encodeHeader(&buf, ds, nil); err != nil {
		t.Fatal(err)
	}

	// The attribute's 4-byte-sign-extended int32(-1) payload is 0xFFFFFFFF,
	// which must appear verbatim in the encoded header.
	if !bytes.Contains(buf.Bytes(), []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Error("I16 attribute value was not sign-extended to 4 bytes on the wire")
	}
}
