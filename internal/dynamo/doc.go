// Package dynamo provides the numeric primitives shared by the orbit solver,
// the free-fly camera and the renderers:
//
//   - [Vec3]: 3-D vector with axis-angle rotation
//   - [Transform]: 4x4 row-major affine/projective matrix
//   - [NormalizeDegrees]: wraps any finite angle into [0, 360)
//
// The world is right-handed with +Y as the up axis; orbits lie in the XZ plane.
//
// # Example
//
//	dir := dynamo.UnitX.Rotate(dynamo.UnitY, 90) // {0, 0, -1}
//	view := dynamo.Rotation(right, up, forward).Mul(dynamo.Translation(pos.Scale(-1)))
//
// All types are plain values and safe to copy.
package dynamo
