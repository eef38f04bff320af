package idf

// Choice-field keywords for the EnergyPlus 9.5 objects this package writes.
// EnergyPlus matches them case-insensitively.

type Roughness string

const (
	VeryRough    Roughness = "VeryRough"
	Rough        Roughness = "Rough"
	MediumRough  Roughness = "MediumRough"
	MediumSmooth Roughness = "MediumSmooth"
	Smooth       Roughness = "Smooth"
	VerySmooth   Roughness = "VerySmooth"
)

var roughnesses = []string{"VeryRough", "Rough", "MediumRough", "MediumSmooth", "Smooth", "VerySmooth"}

type Terrain string

const (
	TerrainCountry Terrain = "Country"
	TerrainSuburbs Terrain = "Suburbs"
	TerrainCity    Terrain = "City"
	TerrainOcean   Terrain = "Ocean"
	TerrainUrban   Terrain = "Urban"
)

var terrains = []string{"Country", "Suburbs", "City", "Ocean", "Urban"}

type SolarDistribution string

const (
	MinimalShadowing                       SolarDistribution = "MinimalShadowing"
	FullExterior                           SolarDistribution = "FullExterior"
	FullInteriorAndExterior                SolarDistribution = "FullInteriorAndExterior"
	FullExteriorWithReflections            SolarDistribution = "FullExteriorWithReflections"
	FullInteriorAndExteriorWithReflections SolarDistribution = "FullInteriorAndExteriorWithReflections"
)

var solarDistributions = []string{
	"MinimalShadowing", "FullExterior", "FullInteriorAndExterior",
	"FullExteriorWithReflections", "FullInteriorAndExteriorWithReflections",
}

var heatBalanceAlgorithms = []string{
	"ConductionTransferFunction",
	"MoisturePenetrationDepthConductionTransferFunction",
	"ConductionFiniteDifference",
	"CombinedHeatAndMoistureFiniteElement",
}

var insideConvection = []string{"Simple", "TARP", "CeilingDiffuser", "AdaptiveConvectionAlgorithm", "ASTMC1340"}

var outsideConvection = []string{"SimpleCombined", "TARP", "MoWiTT", "DOE-2", "AdaptiveConvectionAlgorithm"}

type SurfaceType string

const (
	Wall    SurfaceType = "Wall"
	Floor   SurfaceType = "Floor"
	Roof    SurfaceType = "Roof"
	Ceiling SurfaceType = "Ceiling"
)

var surfaceTypes = []string{"Wall", "Floor", "Roof", "Ceiling"}

type BoundaryCondition string

const (
	Outdoors                 BoundaryCondition = "Outdoors"
	Adiabatic                BoundaryCondition = "Adiabatic"
	SurfaceBoundary          BoundaryCondition = "Surface"
	ZoneBoundary             BoundaryCondition = "Zone"
	Ground                   BoundaryCondition = "Ground"
	Foundation               BoundaryCondition = "Foundation"
	OtherSideCoefficients    BoundaryCondition = "OtherSideCoefficients"
	OtherSideConditionsModel BoundaryCondition = "OtherSideConditionsModel"
)

var boundaryConditions = []string{
	"Outdoors", "Adiabatic", "Surface", "Zone", "Ground", "Foundation",
	"OtherSideCoefficients", "OtherSideConditionsModel",
	"GroundFCfactorMethod", "GroundSlabPreprocessorAverage",
	"GroundSlabPreprocessorCore", "GroundSlabPreprocessorPerimeter",
	"GroundBasementPreprocessorAverageWall", "GroundBasementPreprocessorAverageFloor",
	"GroundBasementPreprocessorUpperWall", "GroundBasementPreprocessorLowerWall",
}

const (
	SunExposed  = "SunExposed"
	NoSun       = "NoSun"
	WindExposed = "WindExposed"
	NoWind      = "NoWind"
)

var vertexStarts = []string{"UpperLeftCorner", "LowerLeftCorner", "UpperRightCorner", "LowerRightCorner"}

var vertexDirections = []string{"Counterclockwise", "Clockwise"}

var coordinateSystems = []string{"Relative", "World", "Absolute"}

var opticalDataTypes = []string{"SpectralAverage", "Spectral", "BSDF", "SpectralAndAngle"}

// Frequency is an output reporting frequency.
type Frequency string

const (
	Detailed    Frequency = "Detailed"
	Timestep    Frequency = "Timestep"
	Hourly      Frequency = "Hourly"
	Daily       Frequency = "Daily"
	Monthly     Frequency = "Monthly"
	RunPeriodly Frequency = "RunPeriod"
	Environment Frequency = "Environment"
	Annual      Frequency = "Annual"
)

var frequencies = []string{"Detailed", "Timestep", "Hourly", "Daily", "Monthly", "RunPeriod", "Environment", "Annual"}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
