package serenade

import "math"

// Affine3 is a 3D affine transform: a row-major 3x3 linear part followed by
// a translation.
//
//	| m[0] m[1] m[2]  m[9]  |
//	| m[3] m[4] m[5]  m[10] |
//	| m[6] m[7] m[8]  m[11] |
type Affine3 [12]float64

// identityTransform is the identity affine matrix.
var identityTransform = Affine3{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

// eulerMatrix returns the rotation for Euler angles applied in XYZ order
// (R = Rx * Ry * Rz), so a vector is rotated about Z first.
func eulerMatrix(r Vec3) Affine3 {
	sx, cx := math.Sincos(r.X)
	sy, cy := math.Sincos(r.Y)
	sz, cz := math.Sincos(r.Z)
	return Affine3{
		cy * cz, -cy * sz, sy,
		cx*sz + sx*sy*cz, cx*cz - sx*sy*sz, -sx * cy,
		sx*sz - cx*sy*cz, sx*cz + cx*sy*sz, cx * cy,
		0, 0, 0,
	}
}

// composeTransform builds Translate(pos) * Rotate(rot) * Scale(s).
func composeTransform(pos, rot Vec3, s float64) Affine3 {
	m := eulerMatrix(rot)
	if s != 1 {
		for i := 0; i < 9; i++ {
			m[i] *= s
		}
	}
	m[9], m[10], m[11] = pos.X, pos.Y, pos.Z
	return m
}

// multiplyAffine3 returns p * c, applying c first.
func multiplyAffine3(p, c Affine3) Affine3 {
	var r Affine3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = p[row*3]*c[col] + p[row*3+1]*c[3+col] + p[row*3+2]*c[6+col]
		}
		r[9+row] = p[row*3]*c[9] + p[row*3+1]*c[10] + p[row*3+2]*c[11] + p[9+row]
	}
	return r
}

// transformPoint applies m to v.
func transformPoint(m Affine3, v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[9],
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z + m[10],
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z + m[11],
	}
}

// rotatePoint rotates v by Euler angles r (XYZ order) around the origin.
func rotatePoint(r Vec3, v Vec3) Vec3 {
	if r == (Vec3{}) {
		return v
	}
	return transformPoint(eulerMatrix(r), v)
}
