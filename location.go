package aqua

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Location is a position in a specific world, optionally with a rotation.
type Location struct {
	World *world.World
	Pos   mgl64.Vec3
	Rot   cube.Rotation
}

// Vec3 returns the position of the location.
func (l Location) Vec3() mgl64.Vec3 {
	return l.Pos
}

// Rotation returns the yaw and pitch of the location.
func (l Location) Rotation() cube.Rotation {
	return l.Rot
}

// Add returns a copy of the location moved by v.
func (l Location) Add(v mgl64.Vec3) Location {
	l.Pos = l.Pos.Add(v)
	return l
}

// String returns the location formatted as world(x, y, z).
func (l Location) String() string {
	name := "<nil>"
	if l.World != nil {
		name = l.World.Name()
	}
	return fmt.Sprintf("%s(%.2f, %.2f, %.2f)", name, l.Pos[0], l.Pos[1], l.Pos[2])
}

// NewLocation builds a location in the world with the given name.
// It returns false if no such world is registered.
func NewLocation(worldName string, x, y, z float64) (Location, bool) {
	return NewLocationRotated(worldName, x, y, z, 0, 0)
}

// NewLocationRotated builds a location with a yaw and pitch in the world with
// the given name. It returns false if no such world is registered.
func NewLocationRotated(worldName string, x, y, z, yaw, pitch float64) (Location, bool) {
	return Current().location(worldName, x, y, z, yaw, pitch)
}

// ParseLocation builds a location from string coordinates.
// It returns false if any coordinate is not a number or the world is unknown.
//
// Usage:
//
//	loc, ok := aqua.ParseLocation(args[0], args[1], args[2], args[3])
//	if !ok {
//	    out.Error("Invalid location.")
//	    return
//	}
func ParseLocation(worldName, x, y, z string) (Location, bool) {
	return ParseLocationArgs([]string{worldName, x, y, z})
}

// ParseLocationArgs builds a location from command style arguments, either
// "world x y z" or "world x y z yaw pitch". Any other argument count, an
// unparseable number or an unknown world yields false.
func ParseLocationArgs(args []string) (Location, bool) {
	if len(args) != 4 && len(args) != 6 {
		return Location{}, false
	}

	coords := make([]float64, 5)
	for i, arg := range args[1:] {
		f, ok := ParseFloat(arg)
		if !ok {
			return Location{}, false
		}
		coords[i] = f
	}
	return Current().location(args[0], coords[0], coords[1], coords[2], coords[3], coords[4])
}

func (p *Plugin) location(worldName string, x, y, z, yaw, pitch float64) (Location, bool) {
	w, ok := p.worlds.lookup(worldName)
	if !ok {
		return Location{}, false
	}
	return Location{
		World: w,
		Pos:   mgl64.Vec3{x, y, z},
		Rot:   cube.Rotation{yaw, pitch},
	}, true
}
