package idf

import "fmt"

// Zone is a thermal zone. CeilingHeight, Volume and FloorArea are
// autocalculated when nil. Blank convection algorithms defer to the
// SurfaceConvectionAlgorithm objects.
type Zone struct {
	Name              string   `yaml:"name" json:"name" hcl:"name,optional"`
	NorthAxis         float64  `yaml:"north_axis" json:"north_axis" hcl:"north_axis,optional"`
	X                 float64  `yaml:"x" json:"x" hcl:"x,optional"`
	Y                 float64  `yaml:"y" json:"y" hcl:"y,optional"`
	Z                 float64  `yaml:"z" json:"z" hcl:"z,optional"`
	Type              string   `yaml:"type" json:"type" hcl:"type,optional"`
	Multiplier        float64  `yaml:"multiplier" json:"multiplier" hcl:"multiplier,optional"`
	CeilingHeight     *float64 `yaml:"ceiling_height" json:"ceiling_height" hcl:"ceiling_height,optional"`
	Volume            *float64 `yaml:"volume" json:"volume" hcl:"volume,optional"`
	FloorArea         *float64 `yaml:"floor_area" json:"floor_area" hcl:"floor_area,optional"`
	InsideConvection  string   `yaml:"inside_convection" json:"inside_convection" hcl:"inside_convection,optional"`
	OutsideConvection string   `yaml:"outside_convection" json:"outside_convection" hcl:"outside_convection,optional"`
	PartOfFloorArea   bool     `yaml:"part_of_floor_area" json:"part_of_floor_area" hcl:"part_of_floor_area,optional"`
}

func DefaultZone(name string) Zone {
	return Zone{
		Name:            name,
		Multiplier:      1.0,
		PartOfFloorArea: true,
	}
}

func (z Zone) Record() (Record, error) {
	const class = "Zone"
	r := newRecord(class)
	r.fail(checkName(class, z.Name, "Name", z.Name, true))
	r.fail(checkName(class, z.Name, "Type", z.Type, false))
	r.fail(checkKeyword(class, z.Name, "Zone Inside Convection Algorithm", z.InsideConvection, true, insideConvection...))
	r.fail(checkKeyword(class, z.Name, "Zone Outside Convection Algorithm", z.OutsideConvection, true, outsideConvection...))
	for _, f := range []struct {
		field string
		v     *float64
	}{
		{"North Axis", &z.NorthAxis},
		{"X Origin", &z.X},
		{"Y Origin", &z.Y},
		{"Z Origin", &z.Z},
		{"Multiplier", &z.Multiplier},
		{"Ceiling Height", z.CeilingHeight},
		{"Volume", z.Volume},
		{"Floor Area", z.FloorArea},
	} {
		if f.v != nil {
			r.fail(checkFinite(class, z.Name, f.field, *f.v))
		}
	}
	r.add(z.Name, "Name").
		add(num(z.NorthAxis, 1), "Direction of Relative North {deg}").
		add(num(z.X, 1), "X Origin {m}").
		add(num(z.Y, 1), "Y Origin {m}").
		add(num(z.Z, 1), "Z Origin {m}").
		add(z.Type, "Type").
		add(num(z.Multiplier, 1), "Multiplier").
		add(autoNum(z.CeilingHeight, 2), "Ceiling Height {m}").
		add(autoNum(z.Volume, 2), "Volume {m3}").
		add(autoNum(z.FloorArea, 2), "Floor Area {m2}").
		add(z.InsideConvection, "Zone Inside Convection Algorithm").
		add(z.OutsideConvection, "Zone Outside Convection Algorithm").
		add(yesNo(z.PartOfFloorArea), "Part of Total Floor Area")
	return r.build()
}

func (z Zone) Records() ([]Record, error) { return single(z.Record()) }

// Vertex is one surface corner in meters.
type Vertex struct {
	X, Y, Z float64
}

// V is shorthand for a Vertex literal.
func V(x, y, z float64) Vertex { return Vertex{X: x, Y: y, Z: z} }

// BuildingSurface is a BuildingSurface:Detailed object. Vertices follow the
// GlobalGeometryRules convention. VertexCount is the declared number of
// vertices; zero means len(Vertices). A declared count that disagrees with
// the vertices supplied is rejected.
//
// ViewFactorToGround is the fraction of the ground seen by the surface:
// 0.5 for walls, 0.0 for roofs, 1.0 for a horizontal down-facing surface.
type BuildingSurface struct {
	Name               string            `yaml:"name" json:"name" hcl:"name,optional"`
	Type               SurfaceType       `yaml:"type" json:"type" hcl:"type,optional"`
	Construction       string            `yaml:"construction" json:"construction" hcl:"construction,optional"`
	Zone               string            `yaml:"zone" json:"zone" hcl:"zone,optional"`
	OutsideBoundary    BoundaryCondition `yaml:"outside_boundary" json:"outside_boundary" hcl:"outside_boundary,optional"`
	OutsideBoundaryObj string            `yaml:"outside_boundary_object" json:"outside_boundary_object" hcl:"outside_boundary_object,optional"`
	SunExposure        string            `yaml:"sun_exposure" json:"sun_exposure" hcl:"sun_exposure,optional"`
	WindExposure       string            `yaml:"wind_exposure" json:"wind_exposure" hcl:"wind_exposure,optional"`
	ViewFactorToGround float64           `yaml:"view_factor_to_ground" json:"view_factor_to_ground" hcl:"view_factor_to_ground,optional"`
	VertexCount        int               `yaml:"vertex_count" json:"vertex_count" hcl:"vertex_count,optional"`
	Vertices           []Vertex          `yaml:"vertices" json:"vertices"`
}

// DefaultBuildingSurface returns an outdoor, sun and wind exposed surface.
func DefaultBuildingSurface(name string, typ SurfaceType, construction, zone string, vertices ...Vertex) BuildingSurface {
	return BuildingSurface{
		Name:            name,
		Type:            typ,
		Construction:    construction,
		Zone:            zone,
		OutsideBoundary: Outdoors,
		SunExposure:     SunExposed,
		WindExposure:    WindExposed,
		Vertices:        vertices,
	}
}

func (s BuildingSurface) Record() (Record, error) {
	const class = "BuildingSurface:Detailed"
	r := newRecord(class)
	r.fail(checkName(class, s.Name, "Name", s.Name, true))
	r.fail(checkKeyword(class, s.Name, "Surface Type", string(s.Type), false, surfaceTypes...))
	r.fail(checkName(class, s.Name, "Construction Name", s.Construction, true))
	r.fail(checkName(class, s.Name, "Zone Name", s.Zone, true))
	r.fail(checkKeyword(class, s.Name, "Outside Boundary Condition", string(s.OutsideBoundary), false, boundaryConditions...))
	r.fail(checkName(class, s.Name, "Outside Boundary Condition Object", s.OutsideBoundaryObj, false))
	r.fail(checkKeyword(class, s.Name, "Sun Exposure", s.SunExposure, false, SunExposed, NoSun))
	r.fail(checkKeyword(class, s.Name, "Wind Exposure", s.WindExposure, false, WindExposed, NoWind))
	r.fail(checkFinite(class, s.Name, "View Factor to Ground", s.ViewFactorToGround))

	n := len(s.Vertices)
	if s.VertexCount != 0 && s.VertexCount != n {
		r.fail(invalid(class, s.Name, "Number of Vertices",
			"declared %d vertices but %d were supplied", s.VertexCount, n))
	}
	if n < 3 {
		r.fail(invalid(class, s.Name, "Vertices", "need at least 3 vertices, got %d", n))
	}

	r.add(s.Name, "Name").
		add(string(s.Type), "Surface Type").
		add(s.Construction, "Construction Name").
		add(s.Zone, "Zone Name").
		add(string(s.OutsideBoundary), "Outside Boundary Condition").
		add(s.OutsideBoundaryObj, "Outside Boundary Condition Object").
		add(s.SunExposure, "Sun Exposure").
		add(s.WindExposure, "Wind Exposure").
		add(num(s.ViewFactorToGround, 2), "View Factor to Ground").
		add(integer(n), "Number of Vertices")
	for i, v := range s.Vertices {
		for _, c := range []struct {
			axis string
			v    float64
		}{{"X", v.X}, {"Y", v.Y}, {"Z", v.Z}} {
			field := fmt.Sprintf("Vertex %d %s-coordinate {m}", i+1, c.axis)
			r.fail(checkFinite(class, s.Name, field, c.v))
			r.add(num(c.v, 3), field)
		}
	}
	return r.build()
}

func (s BuildingSurface) Records() ([]Record, error) { return single(s.Record()) }

// FloorAdiabatic is a rectangular Floor:Adiabatic with its lower left corner
// at (X, Y, Z).
type FloorAdiabatic struct {
	Name         string  `yaml:"name" json:"name" hcl:"name,optional"`
	Construction string  `yaml:"construction" json:"construction" hcl:"construction,optional"`
	Zone         string  `yaml:"zone" json:"zone" hcl:"zone,optional"`
	Azimuth      float64 `yaml:"azimuth" json:"azimuth" hcl:"azimuth,optional"`
	Tilt         float64 `yaml:"tilt" json:"tilt" hcl:"tilt,optional"`
	X            float64 `yaml:"x" json:"x" hcl:"x,optional"`
	Y            float64 `yaml:"y" json:"y" hcl:"y,optional"`
	Z            float64 `yaml:"z" json:"z" hcl:"z,optional"`
	Length       float64 `yaml:"length" json:"length" hcl:"length,optional"`
	Width        float64 `yaml:"width" json:"width" hcl:"width,optional"`
}

func DefaultFloorAdiabatic(name, construction, zone string, length, width float64) FloorAdiabatic {
	return FloorAdiabatic{
		Name:         name,
		Construction: construction,
		Zone:         zone,
		Azimuth:      90,
		Tilt:         180,
		Length:       length,
		Width:        width,
	}
}

func (f FloorAdiabatic) Record() (Record, error) {
	const class = "Floor:Adiabatic"
	r := newRecord(class)
	r.fail(checkName(class, f.Name, "Name", f.Name, true))
	r.fail(checkName(class, f.Name, "Construction Name", f.Construction, true))
	r.fail(checkName(class, f.Name, "Zone Name", f.Zone, true))
	for _, v := range []float64{f.Azimuth, f.Tilt, f.X, f.Y, f.Z, f.Length, f.Width} {
		r.fail(checkFinite(class, f.Name, "geometry", v))
	}
	r.add(f.Name, "Name").
		add(f.Construction, "Construction Name").
		add(f.Zone, "Zone Name").
		add(num(f.Azimuth, 0), "Azimuth Angle {deg}").
		add(num(f.Tilt, 0), "Tilt Angle {deg}").
		add(num(f.X, 3), "Starting X Coordinate {m}").
		add(num(f.Y, 3), "Starting Y Coordinate {m}").
		add(num(f.Z, 3), "Starting Z Coordinate {m}").
		add(num(f.Length, 2), "Length {m}").
		add(num(f.Width, 2), "Width {m}")
	return r.build()
}

func (f FloorAdiabatic) Records() ([]Record, error) { return single(f.Record()) }
