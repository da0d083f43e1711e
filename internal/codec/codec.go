// Package codec implements the primitive big-endian encoding NetCDF-3
// headers and attribute payloads are built from: length-prefixed,
// 4-byte-padded byte blocks, and the fixed-width numeric element types.
//
// It isolates the one documented divergence between this package's wire
// format and every other NetCDF-3 implementation: attribute payloads of
// type I16 are written and read sign-extended to 4 bytes per element,
// while I16 variable-array payloads use the native 2-byte width. Nothing
// outside this package needs to know this.
package codec

import (
	"encoding/binary"
	"io"
)

var zeroPad [4]byte

// Pad4 rounds n up to the next multiple of 4.
func Pad4(n int) int {
	if r := n % 4; r != 0 {
		return n + (4 - r)
	}
	return n
}

// WriteBlock writes an (int32 length, padded bytes) block: the classic
// NetCDF-3 "name" encoding.
func WriteBlock(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(b))); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	p := Pad4(len(b)) - len(b)
	if p > 0 {
		_, err := w.Write(zeroPad[:p])
		return err
	}
	return nil
}

// ReadBlock reads an (int32 length, padded bytes) block and returns the
// length-prefixed content, with padding discarded.
func ReadBlock(r io.Reader) ([]byte, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, Pad4(int(n)))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// WriteI8 writes a padded array of signed bytes.
func WriteI8(w io.Writer, v []int8) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, v); err != nil {
		return err
	}
	return writePad(w, Pad4(len(v))-len(v))
}

// ReadI8 reads a padded array of n signed bytes.
func ReadI8(r io.Reader, n int32) ([]int8, error) {
	v := make([]int8, Pad4(int(n)))
	if err := binary.Read(r, binary.BigEndian, v); err != nil {
		return nil, err
	}
	return v[:n], nil
}

// WriteU8 writes a padded array of unsigned bytes.
func WriteU8(w io.Writer, v []uint8) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	if _, err := w.Write(v); err != nil {
		return err
	}
	return writePad(w, Pad4(len(v))-len(v))
}

// ReadU8 reads a padded array of n unsigned bytes.
func ReadU8(r io.Reader, n int32) ([]uint8, error) {
	v := make([]uint8, Pad4(int(n)))
	if _, err := io.ReadFull(r, v); err != nil {
		return nil, err
	}
	return v[:n], nil
}

// WriteI16Array writes a padded array of signed 16-bit integers at their
// native 2-byte width, the encoding NetCDF-3 uses inside variable data.
func WriteI16Array(w io.Writer, v []int16) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, v); err != nil {
		return err
	}
	return writePad(w, Pad4(len(v)*2)-len(v)*2)
}

// ReadI16Array reads a padded array of n native-width signed 16-bit
// integers.
func ReadI16Array(r io.Reader, n int32) ([]int16, error) {
	byteLen := int(n) * 2
	v := make([]int16, Pad4(byteLen)/2)
	if err := binary.Read(r, binary.BigEndian, v); err != nil {
		return nil, err
	}
	return v[:n], nil
}

// WriteI16Attr writes an I16 attribute payload: each element sign-extended
// to 4 bytes. See the package doc.
func WriteI16Attr(w io.Writer, v []int16) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	wide := make([]int32, len(v))
	for i, e := range v {
		wide[i] = int32(e)
	}
	return binary.Write(w, binary.BigEndian, wide)
}

// ReadI16Attr reads an I16 attribute payload of n sign-extended 4-byte
// elements and narrows them back to int16.
func ReadI16Attr(r io.Reader, n int32) ([]int16, error) {
	wide := make([]int32, n)
	if err := binary.Read(r, binary.BigEndian, wide); err != nil {
		return nil, err
	}
	v := make([]int16, n)
	for i, e := range wide {
		v[i] = int16(e)
	}
	return v, nil
}

// WriteI32 writes a padded array of signed 32-bit integers.
func WriteI32(w io.Writer, v []int32) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, v)
}

// ReadI32 reads an array of n signed 32-bit integers.
func ReadI32(r io.Reader, n int32) ([]int32, error) {
	v := make([]int32, n)
	if err := binary.Read(r, binary.BigEndian, v); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteF32 writes a padded array of 32-bit floats.
func WriteF32(w io.Writer, v []float32) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, v)
}

// ReadF32 reads an array of n 32-bit floats.
func ReadF32(r io.Reader, n int32) ([]float32, error) {
	v := make([]float32, n)
	if err := binary.Read(r, binary.BigEndian, v); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteF64 writes a padded array of 64-bit floats.
func WriteF64(w io.Writer, v []float64) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, v)
}

// ReadF64 reads an array of n 64-bit floats.
func ReadF64(r io.Reader, n int32) ([]float64, error) {
	v := make([]float64, n)
	if err := binary.Read(r, binary.BigEndian, v); err != nil {
		return nil, err
	}
	return v, nil
}

func writePad(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(zeroPad[:n])
	return err
}
