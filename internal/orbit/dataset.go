package orbit

import (
	"fmt"
	"log/slog"
)

// TextureLoader resolves a texture file name to a handle. Implementations may
// fail; the body is then registered untextured.
type TextureLoader interface {
	Load(name string) (TextureRef, error)
}

// Record is one row of the startup table.
type Record struct {
	Name           string
	Parent         string
	Distance       float64
	OrbitalPeriod  float64
	RotationPeriod float64
	Radius         float64
	Texture        string
}

// SolarSystem is the startup dataset: distances in km, periods in Earth
// days, radii in km. Pluto reuses the Neptune texture.
var SolarSystem = []Record{
	{Name: "sun", Distance: 0, OrbitalPeriod: 1, RotationPeriod: 500, Radius: 695500, Texture: "sun.tga"},
	{Name: "mercury", Distance: 57910000, OrbitalPeriod: 88, RotationPeriod: 58.6, Radius: 2440, Texture: "mercury.tga"},
	{Name: "venus", Distance: 108200000, OrbitalPeriod: 224.65, RotationPeriod: 243, Radius: 6052, Texture: "venus.tga"},
	{Name: "earth", Distance: 149600000, OrbitalPeriod: 365, RotationPeriod: 1, Radius: 6371, Texture: "earth.tga"},
	{Name: "mars", Distance: 227939100, OrbitalPeriod: 686, RotationPeriod: 1.03, Radius: 3389, Texture: "mars.tga"},
	{Name: "jupiter", Distance: 778500000, OrbitalPeriod: 4332, RotationPeriod: 0.4139, Radius: 69911, Texture: "jupiter.tga"},
	{Name: "saturn", Distance: 1433000000, OrbitalPeriod: 10759, RotationPeriod: 0.44375, Radius: 58232, Texture: "saturn.tga"},
	{Name: "uranus", Distance: 2877000000, OrbitalPeriod: 30685, RotationPeriod: 0.718056, Radius: 25362, Texture: "uranus.tga"},
	{Name: "neptune", Distance: 4503000000, OrbitalPeriod: 60188, RotationPeriod: 0.6713, Radius: 24622, Texture: "neptune.tga"},
	{Name: "pluto", Distance: 5906380000, OrbitalPeriod: 90616, RotationPeriod: 6.39, Radius: 1137, Texture: "neptune.tga"},
	{Name: "moon", Parent: "earth", Distance: 7000000, OrbitalPeriod: 27.3, RotationPeriod: 27.3, Radius: 1738, Texture: "moon.tga"},
}

// NewSolarSystem registers the SolarSystem table. loader may be nil.
func NewSolarSystem(loader TextureLoader) (*System, error) {
	return Build(SolarSystem, loader)
}

// Build registers records in order; a record's parent must appear earlier.
func Build(records []Record, loader TextureLoader) (*System, error) {
	logger := slog.With("component", "orbit", "operation", "build")
	sys := NewSystem()

	for _, rec := range records {
		tex := NoTexture
		if loader != nil && rec.Texture != "" {
			ref, err := loader.Load(rec.Texture)
			if err != nil {
				logger.Warn("texture unavailable, body stays untextured",
					"body", rec.Name, "texture", rec.Texture, "error", err)
			} else {
				tex = ref
			}
		}

		var err error
		if rec.Parent == "" {
			_, err = sys.AddPlanet(rec.Name, rec.Distance, rec.OrbitalPeriod, rec.RotationPeriod, rec.Radius, tex)
		} else {
			parent, lookupErr := sys.Lookup(rec.Parent)
			if lookupErr != nil {
				parent = BodyID(sys.Len())
			}
			_, err = sys.AddMoon(parent, rec.Name, rec.Distance, rec.OrbitalPeriod, rec.RotationPeriod, rec.Radius, tex)
		}
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", rec.Name, err)
		}
	}

	logger.Debug("system registered", "bodies", sys.Len())
	return sys, nil
}
