package netcdf3

import (
	"fmt"
	"math"
)

// Values is a homogeneous sequence of one of the six ElementTypes: a tagged
// union, the in-memory counterpart of an attribute or variable payload.
// The zero Values is not usable; construct one with the NewXxxValues
// functions.
type Values struct {
	kind ElementType
	i8   []int8
	u8   []uint8
	i16  []int16
	i32  []int32
	f32  []float32
	f64  []float64
}

func NewI8Values(v []int8) Values    { return Values{kind: I8, i8: v} }
func NewU8Values(v []uint8) Values   { return Values{kind: U8, u8: v} }
func NewI16Values(v []int16) Values  { return Values{kind: I16, i16: v} }
func NewI32Values(v []int32) Values  { return Values{kind: I32, i32: v} }
func NewF32Values(v []float32) Values { return Values{kind: F32, f32: v} }
func NewF64Values(v []float64) Values { return Values{kind: F64, f64: v} }

// Type returns the element type of v.
func (v Values) Type() ElementType { return v.kind }

// Len returns the number of elements in v.
func (v Values) Len() int {
	switch v.kind {
	case I8:
		return len(v.i8)
	case U8:
		return len(v.u8)
	case I16:
		return len(v.i16)
	case I32:
		return len(v.i32)
	case F32:
		return len(v.f32)
	case F64:
		return len(v.f64)
	default:
		return 0
	}
}

// ByteSize returns the number of bytes v occupies inside a numeric-array
// (variable) payload: Len() * Type().Size(). Callers computing an
// attribute's on-disk size must account for the I16 sign-extension quirk
// separately; see the header codec.
func (v Values) ByteSize() int64 { return int64(v.Len()) * int64(v.kind.Size()) }

// I8 returns v's backing slice and true if v holds I8 elements.
func (v Values) I8() ([]int8, bool) { return v.i8, v.kind == I8 }

// U8 returns v's backing slice and true if v holds U8 elements.
func (v Values) U8() ([]uint8, bool) { return v.u8, v.kind == U8 }

// I16 returns v's backing slice and true if v holds I16 elements.
func (v Values) I16() ([]int16, bool) { return v.i16, v.kind == I16 }

// I32 returns v's backing slice and true if v holds I32 elements.
func (v Values) I32() ([]int32, bool) { return v.i32, v.kind == I32 }

// F32 returns v's backing slice and true if v holds F32 elements.
func (v Values) F32() ([]float32, bool) { return v.f32, v.kind == F32 }

// F64 returns v's backing slice and true if v holds F64 elements.
func (v Values) F64() ([]float64, bool) { return v.f64, v.kind == F64 }

// ValuesFromBytes parses raw as a sequence of t-typed elements in t's
// external size, the in-memory counterpart of reading a numeric-array
// payload whose length in bytes is already known. It fails with
// LengthMismatch if len(raw) is not a whole multiple of t's element size.
func ValuesFromBytes(t ElementType, raw []byte) (Values, error) {
	if !t.Valid() {
		return Values{}, newError(TypeMismatch, "")
	}
	size := t.Size()
	if len(raw)%size != 0 {
		return Values{}, newError(LengthMismatch, "")
	}
	n := len(raw) / size
	v := Values{kind: t}
	for i := 0; i < n; i++ {
		e := raw[i*size : (i+1)*size]
		switch t {
		case I8:
			v.i8 = append(v.i8, int8(e[0]))
		case U8:
			v.u8 = append(v.u8, e[0])
		case I16:
			v.i16 = append(v.i16, int16(uint16(e[0])<<8|uint16(e[1])))
		case I32:
			v.i32 = append(v.i32, int32(uint32(e[0])<<24|uint32(e[1])<<16|uint32(e[2])<<8|uint32(e[3])))
		case F32:
			bits := uint32(e[0])<<24 | uint32(e[1])<<16 | uint32(e[2])<<8 | uint32(e[3])
			v.f32 = append(v.f32, math.Float32frombits(bits))
		case F64:
			bits := uint64(e[0])<<56 | uint64(e[1])<<48 | uint64(e[2])<<40 | uint64(e[3])<<32 |
				uint64(e[4])<<24 | uint64(e[5])<<16 | uint64(e[6])<<8 | uint64(e[7])
			v.f64 = append(v.f64, math.Float64frombits(bits))
		}
	}
	return v, nil
}

// At returns the i'th element boxed as an interface{}, or an error if i is
// out of range. The dynamic type is one of int8, uint8, int16, int32,
// float32 or float64.
func (v Values) At(i int) (interface{}, error) {
	if i < 0 || i >= v.Len() {
		return nil, fmt.Errorf("netcdf3: index %d out of range [0, %d)", i, v.Len())
	}
	switch v.kind {
	case I8:
		return v.i8[i], nil
	case U8:
		return v.u8[i], nil
	case I16:
		return v.i16[i], nil
	case I32:
		return v.i32[i], nil
	case F32:
		return v.f32[i], nil
	case F64:
		return v.f64[i], nil
	default:
		return nil, fmt.Errorf("netcdf3: invalid element type")
	}
}

// Append adds x, which must be of the Go type matching v's ElementType, to
// the end of v and returns the result. It fails with TypeMismatch if x's
// type does not match.
func (v Values) Append(x interface{}) (Values, error) {
	switch v.kind {
	case I8:
		e, ok := x.(int8)
		if !ok {
			return v, newError(TypeMismatch, "")
		}
		v.i8 = append(v.i8, e)
	case U8:
		e, ok := x.(uint8)
		if !ok {
			return v, newError(TypeMismatch, "")
		}
		v.u8 = append(v.u8, e)
	case I16:
		e, ok := x.(int16)
		if !ok {
			return v, newError(TypeMismatch, "")
		}
		v.i16 = append(v.i16, e)
	case I32:
		e, ok := x.(int32)
		if !ok {
			return v, newError(TypeMismatch, "")
		}
		v.i32 = append(v.i32, e)
	case F32:
		e, ok := x.(float32)
		if !ok {
			return v, newError(TypeMismatch, "")
		}
		v.f32 = append(v.f32, e)
	case F64:
		e, ok := x.(float64)
		if !ok {
			return v, newError(TypeMismatch, "")
		}
		v.f64 = append(v.f64, e)
	default:
		return v, newError(TypeMismatch, "")
	}
	return v, nil
}

// Equal reports whether v and o have the same element type, length and
// values.
func (v Values) Equal(o Values) bool {
	if v.kind != o.kind || v.Len() != o.Len() {
		return false
	}
	switch v.kind {
	case I8:
		return equalI8(v.i8, o.i8)
	case U8:
		return equalU8(v.u8, o.u8)
	case I16:
		return equalI16(v.i16, o.i16)
	case I32:
		return equalI32(v.i32, o.i32)
	case F32:
		return equalF32(v.f32, o.f32)
	case F64:
		return equalF64(v.f64, o.f64)
	default:
		return false
	}
}

func equalI8(a, b []int8) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalU8(a, b []uint8) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalI16(a, b []int16) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalI32(a, b []int32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalF32(a, b []float32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalF64(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
