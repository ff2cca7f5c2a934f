package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects world points onto a canvas after rotating them about
// the origin.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera(distance float64) *Camera {
	return &Camera{Distance: distance, Near: 0.1, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// Rotate applies the X, Y then Z rotations.
func (c *Camera) Rotate(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to dot coordinates on a sw x sh surface whose half-height
// spans extent world units. It returns false for points behind the camera
// or off the surface.
func (c *Camera) Project(p r3.Vec, extent float64, sw, sh int) (int, int, bool) {
	rot := r3.Scale(c.Zoom, c.Rotate(p))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	unit := float64(min(sw, sh)) / 2 / extent
	x := int(rot.X*persp*unit) + sw/2
	y := int(-rot.Y*persp*unit) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

// RenderPoints clears c and plots every visible point.
func RenderPoints(c *Canvas, pts []r3.Vec, cam *Camera, extent float64) int {
	if c == nil || cam == nil || extent <= 0 {
		return 0
	}
	c.Clear()
	sw, sh := c.Width*2, c.Height*4
	drawn := 0
	for _, p := range pts {
		if x, y, ok := cam.Project(p, extent, sw, sh); ok {
			c.Set(x, y)
			drawn++
		}
	}
	return drawn
}

// RenderAxes draws the three world axes of length l.
func RenderAxes(c *Canvas, cam *Camera, l, extent float64) {
	sw, sh := c.Width*2, c.Height*4
	ox, oy, _ := cam.Project(r3.Vec{}, extent, sw, sh)
	for _, axis := range []r3.Vec{{X: l}, {Y: l}, {Z: l}} {
		x, y, _ := cam.Project(axis, extent, sw, sh)
		c.DrawLine(ox, oy, x, y)
	}
}
