// Package traj reads the trajectory and topology artifacts produced by the
// external engine. Coordinates are converted to nanometers at the boundary;
// everything downstream works in nm.
package traj

import "math"

// Vec3 is a particle position in nm.
type Vec3 struct {
	X, Y, Z float64
}

// Frame is one trajectory snapshot: positions for every particle and the
// periodic box dimensions in effect, all in nm. A zero box means the frame
// is non-periodic.
type Frame struct {
	Positions []Vec3
	Box       [3]float64
}

// Periodic reports whether the frame carries box dimensions.
func (f *Frame) Periodic() bool {
	return f.Box[0] > 0 && f.Box[1] > 0 && f.Box[2] > 0
}

// Distance returns the separation of particles i and j under the
// minimum-image convention when the frame is periodic, plain Euclidean
// otherwise.
func (f *Frame) Distance(i, j int) float64 {
	a, b := f.Positions[i], f.Positions[j]
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	if f.Periodic() {
		dx -= f.Box[0] * math.Round(dx/f.Box[0])
		dy -= f.Box[1] * math.Round(dy/f.Box[1])
		dz -= f.Box[2] * math.Round(dz/f.Box[2])
	}
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
