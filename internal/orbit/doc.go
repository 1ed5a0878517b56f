// Package orbit holds the body registry and the circular-orbit position solver.
//
// Bodies live in an append-only arena addressed by [BodyID]. A moon may only
// reference a body that is already registered, so a single forward pass over
// the arena always solves parents before their children:
//
//	sys := orbit.NewSystem()
//	sun, _ := sys.AddPlanet("sun", 0, 0, 25.4, 695500, orbit.NoTexture)
//	earth, _ := sys.AddPlanet("earth", 149600000, 365, 1, 6371, tex)
//	sys.AddMoon(earth, "moon", 384400, 27.3, 27.3, 1738, moonTex)
//	sys.CalculatePositions(t)
//
// Distances are kilometres, periods Earth days, angles degrees.
package orbit
