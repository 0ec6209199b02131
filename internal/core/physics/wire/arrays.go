package wire

import "math"

// Sizes of packed array elements.
const (
	Int32Size = 4
	Vec3Size  = 12
	QuatSize  = 16
)

// PackInt32s renders an int32 array in native layout.
func PackInt32s(v []int32) []byte {
	if len(v) == 0 {
		return nil
	}
	out := make([]byte, len(v)*Int32Size)
	for i, x := range v {
		Order.PutUint32(out[i*Int32Size:], uint32(x))
	}
	return out
}

// UnpackInt32s reads n int32 values.
func UnpackInt32s(b []byte, n int) ([]int32, error) {
	if n < 0 || len(b) < n*Int32Size {
		return nil, ErrShortImage
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(Order.Uint32(b[i*Int32Size:]))
	}
	return out, nil
}

// PutVec3 writes one vector at the start of b.
func PutVec3(b []byte, v Vec3) {
	Order.PutUint32(b[0:], math.Float32bits(v[0]))
	Order.PutUint32(b[4:], math.Float32bits(v[1]))
	Order.PutUint32(b[8:], math.Float32bits(v[2]))
}

// GetVec3 reads one vector from the start of b.
func GetVec3(b []byte) Vec3 {
	return Vec3{
		math.Float32frombits(Order.Uint32(b[0:])),
		math.Float32frombits(Order.Uint32(b[4:])),
		math.Float32frombits(Order.Uint32(b[8:])),
	}
}

// PackVec3s renders a vector array in native layout.
func PackVec3s(v []Vec3) []byte {
	if len(v) == 0 {
		return nil
	}
	out := make([]byte, len(v)*Vec3Size)
	for i, x := range v {
		PutVec3(out[i*Vec3Size:], x)
	}
	return out
}

// UnpackVec3s reads n vectors.
func UnpackVec3s(b []byte, n int) ([]Vec3, error) {
	if n < 0 || len(b) < n*Vec3Size {
		return nil, ErrShortImage
	}
	out := make([]Vec3, n)
	for i := range out {
		out[i] = GetVec3(b[i*Vec3Size:])
	}
	return out, nil
}

// PackQuats renders a quaternion array in native layout.
func PackQuats(v []Quat) []byte {
	if len(v) == 0 {
		return nil
	}
	out := make([]byte, len(v)*QuatSize)
	for i, q := range v {
		PutVec3(out[i*QuatSize:], q.V)
		Order.PutUint32(out[i*QuatSize+Vec3Size:], math.Float32bits(q.W))
	}
	return out
}

// UnpackQuats reads n quaternions.
func UnpackQuats(b []byte, n int) ([]Quat, error) {
	if n < 0 || len(b) < n*QuatSize {
		return nil, ErrShortImage
	}
	out := make([]Quat, n)
	for i := range out {
		off := i * QuatSize
		out[i] = Quat{V: GetVec3(b[off:]), W: math.Float32frombits(Order.Uint32(b[off+Vec3Size:]))}
	}
	return out, nil
}
