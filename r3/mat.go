package r3

import "math"

// Mat3x3 represents a 3x3 matrix.
type Mat3x3 struct {
	M [3][3]float64
}

// IdentityMat3x3 returns an identity matrix.
func IdentityMat3x3() Mat3x3 {
	return Mat3x3{
		M: [3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}

// MulVec multiplies the matrix by a vector.
func (m Mat3x3) MulVec(v Vec) Vec {
	return Vec{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		Z: m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// Mul multiplies the current matrix with another Mat3x3.
func (m Mat3x3) Mul(n Mat3x3) Mat3x3 {
	var result Mat3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += m.M[i][k] * n.M[k][j]
			}
			result.M[i][j] = sum
		}
	}
	return result
}

// Transpose returns the transpose of the matrix.
func (m Mat3x3) Transpose() Mat3x3 {
	return Mat3x3{
		M: [3][3]float64{
			{m.M[0][0], m.M[1][0], m.M[2][0]},
			{m.M[0][1], m.M[1][1], m.M[2][1]},
			{m.M[0][2], m.M[1][2], m.M[2][2]},
		},
	}
}

// Rotation matrices around X, Y, and Z axes.
func RotationMatrixX(angle float64) Mat3x3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Mat3x3{
		M: [3][3]float64{
			{1, 0, 0},
			{0, c, -s},
			{0, s, c},
		},
	}
}

func RotationMatrixY(angle float64) Mat3x3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Mat3x3{
		M: [3][3]float64{
			{c, 0, s},
			{0, 1, 0},
			{-s, 0, c},
		},
	}
}

// RotationMatrixZ returns the rotation matrix about the Z axis for the radian argument angle.
func RotationMatrixZ(angle float64) Mat3x3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Mat3x3{
		M: [3][3]float64{
			{c, -s, 0},
			{s, c, 0},
			{0, 0, 1},
		},
	}
}

// RotationMatrixAxisAngle returns the rotation matrix for a right-handed
// rotation by angle radians about axis, using Rodrigues' formula. axis need
// not be normalized; the zero vector yields the identity matrix.
func RotationMatrixAxisAngle(axis Vec, angle float64) Mat3x3 {
	a := axis.Unit()
	if a.IsZero() {
		return IdentityMat3x3()
	}
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	x, y, z := a.X, a.Y, a.Z
	return Mat3x3{
		M: [3][3]float64{
			{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
			{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
			{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
		},
	}
}

// IsOrthonormal reports whether m is (within atol) a rotation matrix: its
// rows are unit length and mutually orthogonal. Node transforms rely on
// this to reject a scale sneaking in through matrix composition, since
// scale factors are not a supported part of the transform model.
func (m Mat3x3) IsOrthonormal(atol float64) bool {
	rows := [3]Vec{
		{m.M[0][0], m.M[0][1], m.M[0][2]},
		{m.M[1][0], m.M[1][1], m.M[1][2]},
		{m.M[2][0], m.M[2][1], m.M[2][2]},
	}
	for i := 0; i < 3; i++ {
		if math.Abs(rows[i].Length()-1) > atol {
			return false
		}
		for j := i + 1; j < 3; j++ {
			if math.Abs(rows[i].Dot(rows[j])) > atol {
				return false
			}
		}
	}
	return true
}
