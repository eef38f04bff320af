package idf

import "fmt"

// Header is written once when a document is opened.
type Header struct {
	Comment  string `yaml:"comment" json:"comment" hcl:"comment,optional"`
	Version  string `yaml:"version" json:"version" hcl:"version,optional"`
	Timestep int    `yaml:"timestep" json:"timestep" hcl:"timestep,optional"` // per hour
}

// DefaultHeader targets EnergyPlus 9.5 with 6 time steps per hour (10 minutes).
func DefaultHeader() Header {
	return Header{
		Comment:  "IDF file created by greenhouse-eplus",
		Version:  "9.5",
		Timestep: 6,
	}
}

func (h Header) Records() ([]Record, error) {
	if err := checkName("Version", "", "Version Identifier", h.Version, true); err != nil {
		return nil, err
	}
	if h.Timestep <= 0 {
		return nil, invalid("Timestep", "", "Number of Timesteps per Hour", "must be positive, got %d", h.Timestep)
	}
	return []Record{
		{Class: "Version", Fields: []Field{{Value: h.Version}}, Compact: true},
		{Class: "Timestep", Fields: []Field{{Value: integer(h.Timestep)}}, Compact: true},
	}, nil
}

// Building is the Building object. NorthAxis is the angle in degrees from true
// North to building North (the Y axis under the default geometry rules).
type Building struct {
	Name                 string            `yaml:"name" json:"name" hcl:"name,optional"`
	NorthAxis            float64           `yaml:"north_axis" json:"north_axis" hcl:"north_axis,optional"`
	Terrain              Terrain           `yaml:"terrain" json:"terrain" hcl:"terrain,optional"`
	LoadsTolerance       float64           `yaml:"loads_tolerance" json:"loads_tolerance" hcl:"loads_tolerance,optional"`
	TemperatureTolerance float64           `yaml:"temperature_tolerance" json:"temperature_tolerance" hcl:"temperature_tolerance,optional"`
	SolarDistribution    SolarDistribution `yaml:"solar_distribution" json:"solar_distribution" hcl:"solar_distribution,optional"`
	MaxWarmupDays        int               `yaml:"max_warmup_days" json:"max_warmup_days" hcl:"max_warmup_days,optional"`
	MinWarmupDays        int               `yaml:"min_warmup_days" json:"min_warmup_days" hcl:"min_warmup_days,optional"`
}

// DefaultBuilding uses MinimalShadowing: all beam solar entering the zone
// falls on the floor, part is absorbed and the rest is reflected as diffuse.
func DefaultBuilding(name string) Building {
	return Building{
		Name:                 name,
		Terrain:              TerrainCountry,
		LoadsTolerance:       0.05,
		TemperatureTolerance: 0.05,
		SolarDistribution:    MinimalShadowing,
		MaxWarmupDays:        30,
		MinWarmupDays:        6,
	}
}

func (b Building) Record() (Record, error) {
	const class = "Building"
	r := newRecord(class)
	r.fail(checkName(class, b.Name, "Name", b.Name, true))
	r.fail(checkFinite(class, b.Name, "North Axis", b.NorthAxis))
	r.fail(checkKeyword(class, b.Name, "Terrain", string(b.Terrain), false, terrains...))
	r.fail(checkFinite(class, b.Name, "Loads Convergence Tolerance Value", b.LoadsTolerance))
	r.fail(checkFinite(class, b.Name, "Temperature Convergence Tolerance Value", b.TemperatureTolerance))
	r.fail(checkKeyword(class, b.Name, "Solar Distribution", string(b.SolarDistribution), false, solarDistributions...))
	r.add(b.Name, "Name").
		add(num(b.NorthAxis, 1), "North Axis {deg}").
		add(string(b.Terrain), "Terrain").
		add(num(b.LoadsTolerance, 2), "Loads Convergence Tolerance Value {W}").
		add(num(b.TemperatureTolerance, 2), "Temperature Convergence Tolerance Value {deltaC}").
		add(string(b.SolarDistribution), "Solar Distribution").
		add(integer(b.MaxWarmupDays), "Maximum Number of Warmup Days").
		add(integer(b.MinWarmupDays), "Minimum Number of Warmup Days")
	return r.build()
}

func (b Building) Records() ([]Record, error) { return single(b.Record()) }

// Algorithms bundles the heat balance and surface convection algorithms,
// written as three separate objects.
type Algorithms struct {
	HeatBalance       string `yaml:"heat_balance" json:"heat_balance" hcl:"heat_balance,optional"`
	InsideConvection  string `yaml:"inside_convection" json:"inside_convection" hcl:"inside_convection,optional"`
	OutsideConvection string `yaml:"outside_convection" json:"outside_convection" hcl:"outside_convection,optional"`
}

// DefaultAlgorithms is a sensible-heat-only solution with TARP inside
// (flat plate correlations) and DOE-2 outside (rough surface correlations).
func DefaultAlgorithms() Algorithms {
	return Algorithms{
		HeatBalance:       "ConductionTransferFunction",
		InsideConvection:  "TARP",
		OutsideConvection: "DOE-2",
	}
}

func (a Algorithms) Records() ([]Record, error) {
	if err := checkKeyword("HeatBalanceAlgorithm", "", "Algorithm", a.HeatBalance, false, heatBalanceAlgorithms...); err != nil {
		return nil, err
	}
	if err := checkKeyword("SurfaceConvectionAlgorithm:Inside", "", "Algorithm", a.InsideConvection, false, insideConvection...); err != nil {
		return nil, err
	}
	if err := checkKeyword("SurfaceConvectionAlgorithm:Outside", "", "Algorithm", a.OutsideConvection, false, outsideConvection...); err != nil {
		return nil, err
	}
	return []Record{
		{Class: "HeatBalanceAlgorithm", Fields: []Field{{Value: a.HeatBalance}}, Compact: true},
		{Class: "SurfaceConvectionAlgorithm:Inside", Fields: []Field{{Value: a.InsideConvection}}, Compact: true},
		{Class: "SurfaceConvectionAlgorithm:Outside", Fields: []Field{{Value: a.OutsideConvection}}, Compact: true},
	}, nil
}

// SimulationControl selects which sizing and weather runs are performed.
// HVACSizingPasses is only used when HVACSizing is on.
type SimulationControl struct {
	ZoneSizing       bool `yaml:"zone_sizing" json:"zone_sizing" hcl:"zone_sizing,optional"`
	SystemSizing     bool `yaml:"system_sizing" json:"system_sizing" hcl:"system_sizing,optional"`
	PlantSizing      bool `yaml:"plant_sizing" json:"plant_sizing" hcl:"plant_sizing,optional"`
	SizingPeriods    bool `yaml:"sizing_periods" json:"sizing_periods" hcl:"sizing_periods,optional"`
	WeatherRunPeriod bool `yaml:"weather_run_periods" json:"weather_run_periods" hcl:"weather_run_periods,optional"`
	HVACSizing       bool `yaml:"hvac_sizing" json:"hvac_sizing" hcl:"hvac_sizing,optional"`
	HVACSizingPasses int  `yaml:"hvac_sizing_passes" json:"hvac_sizing_passes" hcl:"hvac_sizing_passes,optional"`
}

func DefaultSimulationControl() SimulationControl {
	return SimulationControl{
		SizingPeriods:    true,
		WeatherRunPeriod: true,
		HVACSizingPasses: 1,
	}
}

func (s SimulationControl) Record() (Record, error) {
	r := newRecord("SimulationControl")
	r.add(yesNo(s.ZoneSizing), "Do Zone Sizing Calculation").
		add(yesNo(s.SystemSizing), "Do System Sizing Calculation").
		add(yesNo(s.PlantSizing), "Do Plant Sizing Calculation").
		add(yesNo(s.SizingPeriods), "Run Simulation for Sizing Periods").
		add(yesNo(s.WeatherRunPeriod), "Run Simulation for Weather File Run Periods").
		add(yesNo(s.HVACSizing), "Do HVAC Sizing Simulation for Sizing Periods").
		add(integer(s.HVACSizingPasses), "Maximum Number of HVAC Sizing Simulation Passes")
	return r.build()
}

func (s SimulationControl) Records() ([]Record, error) { return single(s.Record()) }

// RunPeriod is one weather file run period. A zero year is written blank so
// EnergyPlus picks it from the other inputs; a blank weekday means Sunday.
type RunPeriod struct {
	Name               string `yaml:"name" json:"name" hcl:"name,optional"`
	BeginMonth         int    `yaml:"begin_month" json:"begin_month" hcl:"begin_month,optional"`
	BeginDay           int    `yaml:"begin_day" json:"begin_day" hcl:"begin_day,optional"`
	BeginYear          int    `yaml:"begin_year" json:"begin_year" hcl:"begin_year,optional"`
	EndMonth           int    `yaml:"end_month" json:"end_month" hcl:"end_month,optional"`
	EndDay             int    `yaml:"end_day" json:"end_day" hcl:"end_day,optional"`
	EndYear            int    `yaml:"end_year" json:"end_year" hcl:"end_year,optional"`
	StartWeekday       string `yaml:"start_weekday" json:"start_weekday" hcl:"start_weekday,optional"`
	Holidays           bool   `yaml:"holidays" json:"holidays" hcl:"holidays,optional"`
	DaylightSaving     bool   `yaml:"daylight_saving" json:"daylight_saving" hcl:"daylight_saving,optional"`
	WeekendHolidayRule bool   `yaml:"weekend_holiday_rule" json:"weekend_holiday_rule" hcl:"weekend_holiday_rule,optional"`
	Rain               bool   `yaml:"rain" json:"rain" hcl:"rain,optional"`
	Snow               bool   `yaml:"snow" json:"snow" hcl:"snow,optional"`
}

// DefaultRunPeriod covers January 1st to December 31st.
func DefaultRunPeriod(name string) RunPeriod {
	return RunPeriod{
		Name:       name,
		BeginMonth: 1,
		BeginDay:   1,
		EndMonth:   12,
		EndDay:     31,
	}
}

func (p RunPeriod) Record() (Record, error) {
	const class = "RunPeriod"
	r := newRecord(class)
	r.fail(checkName(class, p.Name, "Name", p.Name, true))
	r.fail(checkKeyword(class, p.Name, "Day of Week for Start Day", p.StartWeekday, true, weekdays...))
	if p.EndYear != 0 && p.BeginYear == 0 {
		r.fail(invalid(class, p.Name, "End Year", "requires Begin Year"))
	}
	r.add(p.Name, "Name").
		add(integer(p.BeginMonth), "Begin Month").
		add(integer(p.BeginDay), "Begin Day of Month").
		add(optionalYear(p.BeginYear), "Begin Year").
		add(integer(p.EndMonth), "End Month").
		add(integer(p.EndDay), "End Day of Month").
		add(optionalYear(p.EndYear), "End Year").
		add(p.StartWeekday, "Day of Week for Start Day").
		add(yesNo(p.Holidays), "Use Weather File Holidays and Special Days").
		add(yesNo(p.DaylightSaving), "Use Weather File Daylight Saving Period").
		add(yesNo(p.WeekendHolidayRule), "Apply Weekend Holiday Rule").
		add(yesNo(p.Rain), "Use Weather File Rain Indicators").
		add(yesNo(p.Snow), "Use Weather File Snow Indicators")
	return r.build()
}

func (p RunPeriod) Records() ([]Record, error) { return single(p.Record()) }

func optionalYear(y int) string {
	if y == 0 {
		return ""
	}
	return integer(y)
}

// GroundTemperatures holds the twelve monthly ground temperatures (deg C)
// seen by surfaces with a Ground boundary condition.
type GroundTemperatures [12]float64

// UniformGroundTemperatures returns the same temperature for every month.
func UniformGroundTemperatures(t float64) GroundTemperatures {
	var g GroundTemperatures
	for i := range g {
		g[i] = t
	}
	return g
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (g GroundTemperatures) Record() (Record, error) {
	const class = "Site:GroundTemperature:BuildingSurface"
	r := newRecord(class)
	for i, t := range g {
		r.fail(checkFinite(class, "", monthNames[i], t))
		r.add(num(t, 1), fmt.Sprintf("%s Ground Temperature {C}", monthNames[i]))
	}
	return r.build()
}

func (g GroundTemperatures) Records() ([]Record, error) { return single(g.Record()) }

// GlobalGeometryRules fixes the vertex conventions used by every surface.
type GlobalGeometryRules struct {
	StartingVertex         string `yaml:"starting_vertex" json:"starting_vertex" hcl:"starting_vertex,optional"`
	VertexEntryDirection   string `yaml:"vertex_entry_direction" json:"vertex_entry_direction" hcl:"vertex_entry_direction,optional"`
	CoordinateSystem       string `yaml:"coordinate_system" json:"coordinate_system" hcl:"coordinate_system,optional"`
	DaylightingCoordinates string `yaml:"daylighting_coordinates" json:"daylighting_coordinates" hcl:"daylighting_coordinates,optional"`
	RectangularCoordinates string `yaml:"rectangular_coordinates" json:"rectangular_coordinates" hcl:"rectangular_coordinates,optional"`
}

func DefaultGlobalGeometryRules() GlobalGeometryRules {
	return GlobalGeometryRules{
		StartingVertex:         "UpperLeftCorner",
		VertexEntryDirection:   "CounterClockWise",
		CoordinateSystem:       "World",
		DaylightingCoordinates: "World",
		RectangularCoordinates: "World",
	}
}

func (g GlobalGeometryRules) Record() (Record, error) {
	const class = "GlobalGeometryRules"
	r := newRecord(class)
	r.fail(checkKeyword(class, "", "Starting Vertex Position", g.StartingVertex, false, vertexStarts...))
	r.fail(checkKeyword(class, "", "Vertex Entry Direction", g.VertexEntryDirection, false, vertexDirections...))
	r.fail(checkKeyword(class, "", "Coordinate System", g.CoordinateSystem, false, coordinateSystems...))
	r.fail(checkKeyword(class, "", "Daylighting Reference Point Coordinate System", g.DaylightingCoordinates, true, coordinateSystems...))
	r.fail(checkKeyword(class, "", "Rectangular Surface Coordinate System", g.RectangularCoordinates, true, coordinateSystems...))
	r.add(g.StartingVertex, "Starting Vertex Position").
		add(g.VertexEntryDirection, "Vertex Entry Direction").
		add(g.CoordinateSystem, "Coordinate System").
		add(g.DaylightingCoordinates, "Daylighting Reference Point Coordinate System").
		add(g.RectangularCoordinates, "Rectangular Surface Coordinate System")
	return r.build()
}

func (g GlobalGeometryRules) Records() ([]Record, error) { return single(g.Record()) }
