package model

import (
	"fmt"
	"strings"
)

// Problem is one dangling name reference found by CheckReferences.
type Problem struct {
	Object string `json:"object"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %q: %s", p.Object, p.Name, p.Detail)
}

// CheckReferences reports constructions, zones and layers that are referenced
// but never declared. EnergyPlus names are case-insensitive. The writer does
// not need these to be consistent, so the result is advisory.
func (m *Model) CheckReferences() []Problem {
	materials := nameSet()
	for _, x := range m.Materials {
		materials.add(x.Name)
	}
	for _, x := range m.NoMassMaterials {
		materials.add(x.Name)
	}
	for _, x := range m.Glazings {
		materials.add(x.Name)
	}
	constructions := nameSet()
	for _, c := range m.Constructions {
		constructions.add(c.Name)
	}
	zones := nameSet()
	for _, z := range m.Zones {
		zones.add(z.Name)
	}
	surfaces := nameSet()
	for _, s := range m.Surfaces {
		surfaces.add(s.Name)
	}
	for _, f := range m.AdiabaticFloors {
		surfaces.add(f.Name)
	}

	var out []Problem
	for _, c := range m.Constructions {
		for _, layer := range c.Layers {
			if !materials.has(layer) {
				out = append(out, Problem{"Construction", c.Name, fmt.Sprintf("unknown material %q", layer)})
			}
		}
	}
	check := func(object, name, construction, zone string) {
		if !constructions.has(construction) {
			out = append(out, Problem{object, name, fmt.Sprintf("unknown construction %q", construction)})
		}
		if !zones.has(zone) {
			out = append(out, Problem{object, name, fmt.Sprintf("unknown zone %q", zone)})
		}
	}
	for _, s := range m.Surfaces {
		check("BuildingSurface:Detailed", s.Name, s.Construction, s.Zone)
		if strings.EqualFold(string(s.OutsideBoundary), "Surface") && !surfaces.has(s.OutsideBoundaryObj) {
			out = append(out, Problem{"BuildingSurface:Detailed", s.Name, fmt.Sprintf("unknown boundary surface %q", s.OutsideBoundaryObj)})
		}
	}
	for _, f := range m.AdiabaticFloors {
		check("Floor:Adiabatic", f.Name, f.Construction, f.Zone)
	}
	return out
}

type names map[string]struct{}

func nameSet() names { return names{} }

func (n names) add(s string) { n[strings.ToUpper(s)] = struct{}{} }

func (n names) has(s string) bool {
	_, ok := n[strings.ToUpper(s)]
	return ok
}
