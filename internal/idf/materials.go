package idf

// Material is a regular layer with thermal mass, in SI units (m, W/m-K,
// kg/m3, J/kg-K). EnergyPlus recommends a thickness above 0.003 m and a
// conductivity below 5 W/m-K; neither is enforced here, the engine reports
// them at run time.
type Material struct {
	Name               string    `yaml:"name" json:"name" hcl:"name,optional"`
	Roughness          Roughness `yaml:"roughness" json:"roughness" hcl:"roughness,optional"`
	Thickness          float64   `yaml:"thickness" json:"thickness" hcl:"thickness,optional"`
	Conductivity       float64   `yaml:"conductivity" json:"conductivity" hcl:"conductivity,optional"`
	Density            float64   `yaml:"density" json:"density" hcl:"density,optional"`
	SpecificHeat       float64   `yaml:"specific_heat" json:"specific_heat" hcl:"specific_heat,optional"`
	ThermalAbsorptance float64   `yaml:"thermal_absorptance" json:"thermal_absorptance" hcl:"thermal_absorptance,optional"`
	SolarAbsorptance   float64   `yaml:"solar_absorptance" json:"solar_absorptance" hcl:"solar_absorptance,optional"`
	VisibleAbsorptance float64   `yaml:"visible_absorptance" json:"visible_absorptance" hcl:"visible_absorptance,optional"`
}

// DefaultMaterial is thin steel sheet. The conductivity limit makes it a poor
// fit for greenhouse steel frames; MaterialNoMass usually serves better there.
func DefaultMaterial(name string) Material {
	return Material{
		Name:               name,
		Roughness:          Smooth,
		Thickness:          0.003,
		Conductivity:       5.0,
		Density:            7850.0,
		SpecificHeat:       1000.0,
		ThermalAbsorptance: 0.9,
		SolarAbsorptance:   0.7,
		VisibleAbsorptance: 0.7,
	}
}

func (m Material) Record() (Record, error) {
	const class = "Material"
	r := newRecord(class)
	r.fail(checkName(class, m.Name, "Name", m.Name, true))
	r.fail(checkKeyword(class, m.Name, "Roughness", string(m.Roughness), false, roughnesses...))
	for _, f := range []struct {
		field string
		v     float64
	}{
		{"Thickness", m.Thickness},
		{"Conductivity", m.Conductivity},
		{"Density", m.Density},
		{"Specific Heat", m.SpecificHeat},
		{"Thermal Absorptance", m.ThermalAbsorptance},
		{"Solar Absorptance", m.SolarAbsorptance},
		{"Visible Absorptance", m.VisibleAbsorptance},
	} {
		r.fail(checkFinite(class, m.Name, f.field, f.v))
	}
	r.add(m.Name, "Name").
		add(string(m.Roughness), "Roughness").
		add(num(m.Thickness, 3), "Thickness {m}").
		add(num(m.Conductivity, 1), "Conductivity {W/m-K}").
		add(num(m.Density, 0), "Density {kg/m3}").
		add(num(m.SpecificHeat, 0), "Specific Heat {J/kg-K}").
		add(num(m.ThermalAbsorptance, 2), "Thermal Absorptance").
		add(num(m.SolarAbsorptance, 2), "Solar Absorptance").
		add(num(m.VisibleAbsorptance, 2), "Visible Absorptance")
	return r.build()
}

func (m Material) Records() ([]Record, error) { return single(m.Record()) }

// MaterialNoMass is a layer described only by its thermal resistance.
type MaterialNoMass struct {
	Name               string    `yaml:"name" json:"name" hcl:"name,optional"`
	Roughness          Roughness `yaml:"roughness" json:"roughness" hcl:"roughness,optional"`
	ThermalResistance  float64   `yaml:"thermal_resistance" json:"thermal_resistance" hcl:"thermal_resistance,optional"` // m2-K/W
	ThermalAbsorptance float64   `yaml:"thermal_absorptance" json:"thermal_absorptance" hcl:"thermal_absorptance,optional"`
	SolarAbsorptance   float64   `yaml:"solar_absorptance" json:"solar_absorptance" hcl:"solar_absorptance,optional"`
	VisibleAbsorptance float64   `yaml:"visible_absorptance" json:"visible_absorptance" hcl:"visible_absorptance,optional"`
}

func DefaultMaterialNoMass(name string) MaterialNoMass {
	return MaterialNoMass{
		Name:               name,
		Roughness:          Smooth,
		ThermalResistance:  0.001,
		ThermalAbsorptance: 0.9,
		SolarAbsorptance:   0.7,
		VisibleAbsorptance: 0.7,
	}
}

func (m MaterialNoMass) Record() (Record, error) {
	const class = "Material:NoMass"
	r := newRecord(class)
	r.fail(checkName(class, m.Name, "Name", m.Name, true))
	r.fail(checkKeyword(class, m.Name, "Roughness", string(m.Roughness), false, roughnesses...))
	r.fail(checkFinite(class, m.Name, "Thermal Resistance", m.ThermalResistance))
	r.fail(checkFinite(class, m.Name, "Thermal Absorptance", m.ThermalAbsorptance))
	r.fail(checkFinite(class, m.Name, "Solar Absorptance", m.SolarAbsorptance))
	r.fail(checkFinite(class, m.Name, "Visible Absorptance", m.VisibleAbsorptance))
	r.add(m.Name, "Name").
		add(string(m.Roughness), "Roughness").
		add(num(m.ThermalResistance, 5), "Thermal Resistance {m2-K/W}").
		add(num(m.ThermalAbsorptance, 2), "Thermal Absorptance").
		add(num(m.SolarAbsorptance, 2), "Solar Absorptance").
		add(num(m.VisibleAbsorptance, 2), "Visible Absorptance")
	return r.build()
}

func (m MaterialNoMass) Records() ([]Record, error) { return single(m.Record()) }

// WindowGlazing is a WindowMaterial:Glazing layer. The solar and visible
// properties are only read for the SpectralAverage optical data type.
type WindowGlazing struct {
	Name                    string  `yaml:"name" json:"name" hcl:"name,optional"`
	OpticalDataType         string  `yaml:"optical_data_type" json:"optical_data_type" hcl:"optical_data_type,optional"`
	SpectralDataSet         string  `yaml:"spectral_data_set" json:"spectral_data_set" hcl:"spectral_data_set,optional"`
	Thickness               float64 `yaml:"thickness" json:"thickness" hcl:"thickness,optional"`
	SolarTransmittance      float64 `yaml:"solar_transmittance" json:"solar_transmittance" hcl:"solar_transmittance,optional"`
	FrontSolarReflectance   float64 `yaml:"front_solar_reflectance" json:"front_solar_reflectance" hcl:"front_solar_reflectance,optional"`
	BackSolarReflectance    float64 `yaml:"back_solar_reflectance" json:"back_solar_reflectance" hcl:"back_solar_reflectance,optional"`
	VisibleTransmittance    float64 `yaml:"visible_transmittance" json:"visible_transmittance" hcl:"visible_transmittance,optional"`
	FrontVisibleReflectance float64 `yaml:"front_visible_reflectance" json:"front_visible_reflectance" hcl:"front_visible_reflectance,optional"`
	BackVisibleReflectance  float64 `yaml:"back_visible_reflectance" json:"back_visible_reflectance" hcl:"back_visible_reflectance,optional"`
	InfraredTransmittance   float64 `yaml:"infrared_transmittance" json:"infrared_transmittance" hcl:"infrared_transmittance,optional"`
	FrontInfraredEmissivity float64 `yaml:"front_infrared_emissivity" json:"front_infrared_emissivity" hcl:"front_infrared_emissivity,optional"`
	BackInfraredEmissivity  float64 `yaml:"back_infrared_emissivity" json:"back_infrared_emissivity" hcl:"back_infrared_emissivity,optional"`
	Conductivity            float64 `yaml:"conductivity" json:"conductivity" hcl:"conductivity,optional"`
}

// DefaultWindowGlazing is 6 mm clear glass.
func DefaultWindowGlazing() WindowGlazing {
	return WindowGlazing{
		Name:                    "CLEAR 6MM",
		OpticalDataType:         "SpectralAverage",
		Thickness:               0.006,
		SolarTransmittance:      0.775,
		FrontSolarReflectance:   0.071,
		BackSolarReflectance:    0.071,
		VisibleTransmittance:    0.881,
		FrontVisibleReflectance: 0.080,
		BackVisibleReflectance:  0.080,
		InfraredTransmittance:   0.0,
		FrontInfraredEmissivity: 0.84,
		BackInfraredEmissivity:  0.84,
		Conductivity:            0.9,
	}
}

func (g WindowGlazing) Record() (Record, error) {
	const class = "WindowMaterial:Glazing"
	r := newRecord(class)
	r.fail(checkName(class, g.Name, "Name", g.Name, true))
	r.fail(checkKeyword(class, g.Name, "Optical Data Type", g.OpticalDataType, false, opticalDataTypes...))
	r.fail(checkName(class, g.Name, "Window Glass Spectral Data Set Name", g.SpectralDataSet, false))
	r.add(g.Name, "Name").
		add(g.OpticalDataType, "Optical Data Type").
		add(g.SpectralDataSet, "Window Glass Spectral Data Set Name")
	for _, f := range []struct {
		v    float64
		note string
	}{
		{g.Thickness, "Thickness {m}"},
		{g.SolarTransmittance, "Solar Transmittance at Normal Incidence"},
		{g.FrontSolarReflectance, "Front Side Solar Reflectance at Normal Incidence"},
		{g.BackSolarReflectance, "Back Side Solar Reflectance at Normal Incidence"},
		{g.VisibleTransmittance, "Visible Transmittance at Normal Incidence"},
		{g.FrontVisibleReflectance, "Front Side Visible Reflectance at Normal Incidence"},
		{g.BackVisibleReflectance, "Back Side Visible Reflectance at Normal Incidence"},
		{g.InfraredTransmittance, "Infrared Transmittance at Normal Incidence"},
		{g.FrontInfraredEmissivity, "Front Side Infrared Hemispherical Emissivity"},
		{g.BackInfraredEmissivity, "Back Side Infrared Hemispherical Emissivity"},
		{g.Conductivity, "Conductivity {W/m-K}"},
	} {
		r.fail(checkFinite(class, g.Name, f.note, f.v))
		r.add(num(f.v, 3), f.note)
	}
	return r.build()
}

func (g WindowGlazing) Records() ([]Record, error) { return single(g.Record()) }

// Construction lists its material layers from the outside to the inside,
// e.g. Construction{Name: "WALL", Layers: []string{"STEEL", "CONCRETE"}}.
// Every layer must name a Material, MaterialNoMass or WindowGlazing.
type Construction struct {
	Name   string   `yaml:"name" json:"name" hcl:"name,optional"`
	Layers []string `yaml:"layers" json:"layers" hcl:"layers,optional"`
}

func (c Construction) Record() (Record, error) {
	const class = "Construction"
	r := newRecord(class)
	r.fail(checkName(class, c.Name, "Name", c.Name, true))
	r.add(c.Name, "Name")
	for i, layer := range c.Layers {
		field := "Outside Layer"
		if i > 0 {
			field = "Layer " + integer(i+1)
		}
		r.fail(checkName(class, c.Name, field, layer, true))
		r.add(layer, field)
	}
	return r.build()
}

func (c Construction) Records() ([]Record, error) { return single(c.Record()) }
