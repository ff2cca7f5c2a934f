package solarsystem

import (
	"bufio"
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

type bodyJSON struct {
	Name     string     `json:"name"`
	Mass     float64    `json:"mass"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Moons    []bodyJSON `json:"moons,omitempty"`
}

type particleJSON struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Parent   string     `json:"parent,omitempty"`
	Mass     float64    `json:"mass"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

func vec3(v r3.Vec) [3]float64     { return [3]float64{v.X, v.Y, v.Z} }
func fromVec3(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func toJSON(b Body) bodyJSON {
	out := bodyJSON{
		Name:     b.Name,
		Mass:     b.Mass,
		Position: vec3(b.Position),
		Velocity: vec3(b.Velocity),
	}
	for _, m := range b.Moons {
		out.Moons = append(out.Moons, toJSON(m))
	}
	return out
}

func fromJSON(b bodyJSON) Body {
	out := Body{
		Name:     b.Name,
		Mass:     b.Mass,
		Position: fromVec3(b.Position),
		Velocity: fromVec3(b.Velocity),
	}
	for _, m := range b.Moons {
		out.Moons = append(out.Moons, fromJSON(m))
	}
	return out
}

// WriteJSON writes the nested catalog as one indented document.
func WriteJSON(w io.Writer, bodies []Body) error {
	doc := struct {
		Units  string     `json:"units"`
		Bodies []bodyJSON `json:"bodies"`
	}{Units: "AU, AU/day, Msun"}
	for _, b := range bodies {
		doc.Bodies = append(doc.Bodies, toJSON(b))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func ReadJSON(r io.Reader) ([]Body, error) {
	var doc struct {
		Bodies []bodyJSON `json:"bodies"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	bodies := make([]Body, 0, len(doc.Bodies))
	for _, b := range doc.Bodies {
		bodies = append(bodies, fromJSON(b))
	}
	return bodies, nil
}

// WriteJSONL writes one flattened particle per line.
func WriteJSONL(w io.Writer, ps []Particle) error {
	bw := bufio.NewWriter(w)
	for _, p := range ps {
		b, err := json.Marshal(particleJSON{
			ID:       p.ID,
			Name:     p.Name,
			Parent:   p.Parent,
			Mass:     p.Mass,
			Position: vec3(p.Position),
			Velocity: vec3(p.Velocity),
		})
		if err != nil {
			return err
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
