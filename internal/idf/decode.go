package idf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decoding seeds every object with its documented defaults, so a model file
// only has to spell out what differs. Each method converts through a local
// plain type to avoid recursing into itself.

func (h *Header) UnmarshalYAML(n *yaml.Node) error {
	type plain Header
	p := plain(DefaultHeader())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*h = Header(p)
	return nil
}

func (b *Building) UnmarshalYAML(n *yaml.Node) error {
	type plain Building
	p := plain(DefaultBuilding(""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*b = Building(p)
	return nil
}

func (b *Building) UnmarshalJSON(data []byte) error {
	type plain Building
	p := plain(DefaultBuilding(""))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*b = Building(p)
	return nil
}

func (a *Algorithms) UnmarshalYAML(n *yaml.Node) error {
	type plain Algorithms
	p := plain(DefaultAlgorithms())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*a = Algorithms(p)
	return nil
}

func (a *Algorithms) UnmarshalJSON(data []byte) error {
	type plain Algorithms
	p := plain(DefaultAlgorithms())
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*a = Algorithms(p)
	return nil
}

func (s *SimulationControl) UnmarshalYAML(n *yaml.Node) error {
	type plain SimulationControl
	p := plain(DefaultSimulationControl())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = SimulationControl(p)
	return nil
}

func (s *SimulationControl) UnmarshalJSON(data []byte) error {
	type plain SimulationControl
	p := plain(DefaultSimulationControl())
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*s = SimulationControl(p)
	return nil
}

func (r *RunPeriod) UnmarshalYAML(n *yaml.Node) error {
	type plain RunPeriod
	p := plain(DefaultRunPeriod(""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*r = RunPeriod(p)
	return nil
}

func (r *RunPeriod) UnmarshalJSON(data []byte) error {
	type plain RunPeriod
	p := plain(DefaultRunPeriod(""))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*r = RunPeriod(p)
	return nil
}

func (g *GlobalGeometryRules) UnmarshalYAML(n *yaml.Node) error {
	type plain GlobalGeometryRules
	p := plain(DefaultGlobalGeometryRules())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*g = GlobalGeometryRules(p)
	return nil
}

func (g *GlobalGeometryRules) UnmarshalJSON(data []byte) error {
	type plain GlobalGeometryRules
	p := plain(DefaultGlobalGeometryRules())
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*g = GlobalGeometryRules(p)
	return nil
}

func (m *Material) UnmarshalYAML(n *yaml.Node) error {
	type plain Material
	p := plain(DefaultMaterial(""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*m = Material(p)
	return nil
}

func (m *Material) UnmarshalJSON(data []byte) error {
	type plain Material
	p := plain(DefaultMaterial(""))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*m = Material(p)
	return nil
}

func (m *MaterialNoMass) UnmarshalYAML(n *yaml.Node) error {
	type plain MaterialNoMass
	p := plain(DefaultMaterialNoMass(""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*m = MaterialNoMass(p)
	return nil
}

func (m *MaterialNoMass) UnmarshalJSON(data []byte) error {
	type plain MaterialNoMass
	p := plain(DefaultMaterialNoMass(""))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*m = MaterialNoMass(p)
	return nil
}

func (g *WindowGlazing) UnmarshalYAML(n *yaml.Node) error {
	type plain WindowGlazing
	p := plain(DefaultWindowGlazing())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*g = WindowGlazing(p)
	return nil
}

func (g *WindowGlazing) UnmarshalJSON(data []byte) error {
	type plain WindowGlazing
	p := plain(DefaultWindowGlazing())
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*g = WindowGlazing(p)
	return nil
}

func (z *Zone) UnmarshalYAML(n *yaml.Node) error {
	type plain Zone
	p := plain(DefaultZone(""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*z = Zone(p)
	return nil
}

func (z *Zone) UnmarshalJSON(data []byte) error {
	type plain Zone
	p := plain(DefaultZone(""))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*z = Zone(p)
	return nil
}

func (s *BuildingSurface) UnmarshalYAML(n *yaml.Node) error {
	type plain BuildingSurface
	p := plain(DefaultBuildingSurface("", "", "", ""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = BuildingSurface(p)
	return nil
}

func (s *BuildingSurface) UnmarshalJSON(data []byte) error {
	type plain BuildingSurface
	p := plain(DefaultBuildingSurface("", "", "", ""))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*s = BuildingSurface(p)
	return nil
}

func (f *FloorAdiabatic) UnmarshalYAML(n *yaml.Node) error {
	type plain FloorAdiabatic
	p := plain(DefaultFloorAdiabatic("", "", "", 0, 0))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*f = FloorAdiabatic(p)
	return nil
}

func (f *FloorAdiabatic) UnmarshalJSON(data []byte) error {
	type plain FloorAdiabatic
	p := plain(DefaultFloorAdiabatic("", "", "", 0, 0))
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*f = FloorAdiabatic(p)
	return nil
}

// decodeJSON rejects fields the target does not declare, so a misspelled
// key inside a nested object fails like one at the top level.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Vertices are written as [x, y, z].

func (v *Vertex) UnmarshalYAML(n *yaml.Node) error {
	var xyz []float64
	if err := n.Decode(&xyz); err != nil {
		return err
	}
	return v.set(xyz)
}

func (v *Vertex) UnmarshalJSON(data []byte) error {
	var xyz []float64
	if err := json.Unmarshal(data, &xyz); err != nil {
		return err
	}
	return v.set(xyz)
}

func (v *Vertex) set(xyz []float64) error {
	if len(xyz) != 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(xyz))
	}
	*v = Vertex{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

func (v Vertex) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range []float64{v.X, v.Y, v.Z} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: num(c, 3)})
	}
	return n, nil
}

func (v Vertex) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// Output requests are either a variable name or a [key, variable] pair.

func (q *OutputRequest) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*q = OutputRequest{Variable: n.Value}
		return nil
	}
	var pair []string
	if err := n.Decode(&pair); err != nil {
		return err
	}
	return q.setPair(pair)
}

func (q *OutputRequest) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*q = OutputRequest{Variable: name}
		return nil
	}
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("output request must be a name or a [key, name] pair: %w", err)
	}
	return q.setPair(pair)
}

func (q *OutputRequest) setPair(pair []string) error {
	if len(pair) != 2 {
		return fmt.Errorf("output request pair needs 2 elements, got %d", len(pair))
	}
	*q = OutputRequest{Key: pair[0], Variable: pair[1]}
	return nil
}

func (q OutputRequest) MarshalJSON() ([]byte, error) {
	if q.Key == "" {
		return json.Marshal(q.Variable)
	}
	return json.Marshal([2]string{q.Key, q.Variable})
}

// OutputControlFiles decodes as a sparse map of overrides applied to
// DefaultOutputControlFiles.

func (o *OutputControlFiles) UnmarshalYAML(n *yaml.Node) error {
	var overrides map[string]bool
	if err := n.Decode(&overrides); err != nil {
		return err
	}
	return o.apply(overrides)
}

func (o *OutputControlFiles) UnmarshalJSON(data []byte) error {
	var overrides map[string]bool
	if err := json.Unmarshal(data, &overrides); err != nil {
		return err
	}
	return o.apply(overrides)
}

func (o *OutputControlFiles) apply(overrides map[string]bool) error {
	merged, err := DefaultOutputControlFiles().With(overrides)
	if err != nil {
		return err
	}
	*o = merged
	return nil
}

func (o OutputControlFiles) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Toggles())
}

func (h *Header) UnmarshalJSON(data []byte) error {
	type plain Header
	p := plain(DefaultHeader())
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*h = Header(p)
	return nil
}

// Output variable groups report hourly unless told otherwise.

func (o *OutputVariables) UnmarshalYAML(n *yaml.Node) error {
	type plain OutputVariables
	p := plain(OutputVariables{Frequency: Hourly})
	if err := n.Decode(&p); err != nil {
		return err
	}
	*o = OutputVariables(p)
	return nil
}

func (o *OutputVariables) UnmarshalJSON(data []byte) error {
	type plain OutputVariables
	p := plain(OutputVariables{Frequency: Hourly})
	if err := decodeJSON(data, &p); err != nil {
		return err
	}
	*o = OutputVariables(p)
	return nil
}
