package solarsystem

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCounts(t *testing.T) {
	bodies := Catalog()
	assert.Len(t, bodies, 12)

	moons := 0
	for _, b := range bodies {
		moons += len(b.Moons)
	}
	assert.Equal(t, 8, moons)

	ps := Flatten(bodies)
	require.Len(t, ps, 20)
	for i, p := range ps {
		assert.Equal(t, i, p.ID)
	}
}

func TestFlattenParents(t *testing.T) {
	ps := Flatten(Catalog())
	assert.Equal(t, "Sun", ps[0].Name)
	assert.Empty(t, ps[0].Parent)

	var earth, moon int
	for i, p := range ps {
		switch p.Name {
		case "Earth":
			earth = i
		case "Moon":
			moon = i
		}
	}
	assert.Equal(t, earth+1, moon)
	assert.Equal(t, "Earth", ps[moon].Parent)
}

func TestCatalogValues(t *testing.T) {
	bodies := Catalog()
	earth, ok := Find(bodies, "Earth")
	require.True(t, ok)
	assert.Equal(t, 1.0, earth.Position.X)
	assert.InDelta(t, 2.978e4*VelocityFactor, earth.Velocity.Y, 1e-15)
	assert.Zero(t, earth.Velocity.X)

	io, ok := Find(bodies, "Io")
	require.True(t, ok)
	assert.InDelta(t, 5.202+4.217e-5, io.Position.X, 1e-12)

	_, ok = Find(bodies, "Vulcan")
	assert.False(t, ok)
}

func TestCatalogIsFresh(t *testing.T) {
	a := Catalog()
	a[0].Mass = 42
	a[3].Moons[0].Name = "changed"
	b := Catalog()
	assert.Equal(t, 1.0, b[0].Mass)
	assert.Equal(t, "Moon", b[3].Moons[0].Name)
}

func TestConservedQuantities(t *testing.T) {
	ps := Flatten(Catalog())

	m := TotalMass(ps)
	assert.InDelta(t, 1.00134, m, 1e-4)

	c := Barycenter(ps)
	assert.Greater(t, c.X, 0.0)
	assert.Less(t, c.X, 0.02)
	assert.Zero(t, c.Y)

	assert.Greater(t, KineticEnergy(ps), 0.0)
	assert.Less(t, PotentialEnergy(ps), 0.0)

	l := AngularMomentum(ps)
	assert.Greater(t, l.Z, 0.0)
	assert.Zero(t, l.X)
}

func TestToBarycentric(t *testing.T) {
	ps := ToBarycentric(Flatten(Catalog()))
	c := Barycenter(ps)
	assert.InDelta(t, 0, c.X, 1e-12)
	p := Momentum(ps)
	assert.InDelta(t, 0, p.Y, 1e-15)
}

func TestPotentialSkipsCoincident(t *testing.T) {
	ps := []Particle{{Mass: 1}, {Mass: 1}}
	assert.Zero(t, PotentialEnergy(ps))
}

func TestCircularSpeed(t *testing.T) {
	// Earth's circular speed in AU/day is close to 2*pi/365.25.
	assert.InDelta(t, 0.0172, CircularSpeed(1, 1), 1e-4)
}

func TestWriteReadJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Catalog()))
	assert.Contains(t, buf.String(), `"units"`)

	bodies, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, Catalog(), bodies)
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	ps := Flatten(Catalog())
	require.NoError(t, WriteJSONL(&buf, ps))

	sc := bufio.NewScanner(&buf)
	lines := 0
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		assert.Equal(t, ps[lines].Name, rec["name"])
		lines++
	}
	assert.Equal(t, 20, lines)
}
