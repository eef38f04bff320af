package model

import (
	"errors"
	"fmt"
	"strings"

	"greenhouse-eplus/internal/idf"
)

// GreenhouseParams sizes the single-zone greenhouse: Height, Width (x) and
// Length (y) in meters.
type GreenhouseParams struct {
	Name       string  `yaml:"name" json:"name"`
	Zone       string  `yaml:"zone" json:"zone"`
	Height     float64 `yaml:"height" json:"height"`
	Width      float64 `yaml:"width" json:"width"`
	Length     float64 `yaml:"length" json:"length"`
	Year       int     `yaml:"year" json:"year"`
	GroundTemp float64 `yaml:"ground_temp" json:"ground_temp"`
}

func DefaultGreenhouseParams() GreenhouseParams {
	return GreenhouseParams{
		Name:       "GREENHOUSE",
		Zone:       "MAINZ",
		Height:     10,
		Width:      50,
		Length:     100,
		Year:       1979,
		GroundTemp: 20,
	}
}

const (
	greenhouseWall   = "GHWALL"
	greenhouseRoof   = "STEELROOF"
	greenhouseFloor  = "CONCRETEFLOOR"
	concrete         = "C5 - 4 in HW CONCRETE"
	steel            = "STEEL"
	insideFaceTemp   = "Surface Inside Face Temperature"
	greenhouseFloorS = "GHFloor"
	greenhouseRoofS  = "GHRoof"
)

var greenhouseWalls = []string{"SouthWall", "EastWall", "NorthWall", "WestWall"}

// Greenhouse builds a steel and concrete box with four walls, a steel roof
// and an adiabatic concrete floor, reporting hourly weather and inside face
// temperatures.
func Greenhouse(p GreenhouseParams) (*Model, error) {
	if p.Height <= 0 || p.Width <= 0 || p.Length <= 0 {
		return nil, fmt.Errorf("greenhouse dimensions must be > 0, got H=%g W=%g L=%g", p.Height, p.Width, p.Length)
	}
	if p.Zone == "" {
		return nil, errors.New("greenhouse zone name is required")
	}
	H, W, L := p.Height, p.Width, p.Length
	m := New(p.Name)

	rp := idf.DefaultRunPeriod("Testing")
	rp.BeginYear, rp.EndYear = p.Year, p.Year
	m.RunPeriods = []idf.RunPeriod{rp}

	m.NoMassMaterials = []idf.MaterialNoMass{idf.DefaultMaterialNoMass(steel)}
	c := idf.DefaultMaterial(concrete)
	c.Roughness = idf.MediumRough
	c.Thickness = 0.10
	c.Conductivity = 1.73
	c.Density = 224.2
	c.SpecificHeat = 101
	c.ThermalAbsorptance = 0.9
	c.SolarAbsorptance = 0.65
	c.VisibleAbsorptance = 0.65
	m.Materials = []idf.Material{c}
	m.Glazings = []idf.WindowGlazing{idf.DefaultWindowGlazing()}
	m.Constructions = []idf.Construction{
		{Name: greenhouseWall, Layers: []string{concrete, steel}},
		{Name: greenhouseRoof, Layers: []string{steel}},
		{Name: greenhouseFloor, Layers: []string{concrete}},
	}
	g := idf.UniformGroundTemperatures(p.GroundTemp)
	m.GroundTemperatures = &g
	m.Zones = []idf.Zone{idf.DefaultZone(p.Zone)}

	wall := func(name string, v ...idf.Vertex) idf.BuildingSurface {
		return idf.DefaultBuildingSurface(name, idf.Wall, greenhouseWall, p.Zone, v...)
	}
	m.Surfaces = []idf.BuildingSurface{
		wall("SouthWall", idf.V(0, 0, H), idf.V(0, 0, 0), idf.V(W, 0, 0), idf.V(W, 0, H)),
		wall("EastWall", idf.V(W, 0, H), idf.V(W, 0, 0), idf.V(W, L, 0), idf.V(W, L, H)),
		wall("NorthWall", idf.V(W, L, H), idf.V(W, L, 0), idf.V(0, L, 0), idf.V(0, L, H)),
		wall("WestWall", idf.V(0, L, H), idf.V(0, L, 0), idf.V(0, 0, 0), idf.V(0, 0, H)),
		idf.DefaultBuildingSurface(greenhouseRoofS, idf.Roof, greenhouseRoof, p.Zone,
			idf.V(0, 0, H), idf.V(W, 0, H), idf.V(W, L, H), idf.V(0, L, H)),
	}
	m.AdiabaticFloors = []idf.FloorAdiabatic{
		idf.DefaultFloorAdiabatic(greenhouseFloorS, greenhouseFloor, p.Zone, L, W),
	}

	files, err := idf.DefaultOutputControlFiles().With(map[string]bool{"RDD": true})
	if err != nil {
		return nil, err
	}
	m.OutputFiles = files

	reqs := []idf.OutputRequest{
		idf.Req("Zone Mean Air Temperature"),
		idf.Req("Site Outdoor Air Drybulb Temperature"),
		idf.Req("Site Outdoor Air Wetbulb Temperature"),
		idf.Req("Site Outdoor Air Relative Humidity"),
		idf.KeyedReq(greenhouseFloorS, insideFaceTemp),
		idf.KeyedReq(greenhouseRoofS, insideFaceTemp),
	}
	for _, w := range greenhouseWalls {
		reqs = append(reqs, idf.KeyedReq(w, insideFaceTemp))
	}
	reqs = append(reqs, idf.Req("Site Sky Temperature"))
	m.Outputs = []idf.OutputVariables{{Frequency: idf.Hourly, Requests: reqs}}
	m.VariableDictionary = &idf.VariableDictionary{}
	return m, nil
}

// GreenhouseLabels maps the eplusout.csv column of every greenhouse output
// to the short label used in plots.
func GreenhouseLabels(zone string) map[string]string {
	const hourly = " [C](Hourly)"
	labels := map[string]string{
		"Environment:Site Outdoor Air Relative Humidity [%](Hourly)": "RHo",
	}
	for name, label := range map[string]string{
		"Environment:Site Outdoor Air Drybulb Temperature": "Todb",
		"Environment:Site Outdoor Air Wetbulb Temperature": "Towb",
		"Environment:Site Sky Temperature":                 "Tsky",
		"GHFLOOR:" + insideFaceTemp:                        "Tflr",
		"GHROOF:" + insideFaceTemp:                         "Troof",
	} {
		labels[name+hourly] = label
	}
	labels[strings.ToUpper(zone)+":Zone Mean Air Temperature"+hourly] = "Ti"
	for _, w := range greenhouseWalls {
		labels[strings.ToUpper(w)+":"+insideFaceTemp+hourly] = "Tw" + w[:1]
	}
	return labels
}
