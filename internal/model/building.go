package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"greenhouse-eplus/internal/idf"
)

// Model is a whole IDF document. Objects are rendered in the order of the
// fields below, which is also the order EnergyPlus users expect to read them.
type Model struct {
	Header             idf.Header              `yaml:"header" json:"header"`
	Building           idf.Building            `yaml:"building" json:"building"`
	Algorithms         idf.Algorithms          `yaml:"algorithms" json:"algorithms"`
	SimulationControl  idf.SimulationControl   `yaml:"simulation_control" json:"simulation_control"`
	RunPeriods         []idf.RunPeriod         `yaml:"run_periods" json:"run_periods"`
	Materials          []idf.Material          `yaml:"materials" json:"materials"`
	NoMassMaterials    []idf.MaterialNoMass    `yaml:"nomass_materials" json:"nomass_materials"`
	Glazings           []idf.WindowGlazing     `yaml:"glazings" json:"glazings"`
	Constructions      []idf.Construction      `yaml:"constructions" json:"constructions"`
	GroundTemperatures *idf.GroundTemperatures `yaml:"ground_temperatures" json:"ground_temperatures"`
	Zones              []idf.Zone              `yaml:"zones" json:"zones"`
	GeometryRules      idf.GlobalGeometryRules `yaml:"geometry_rules" json:"geometry_rules"`
	Surfaces           []idf.BuildingSurface   `yaml:"surfaces" json:"surfaces"`
	AdiabaticFloors    []idf.FloorAdiabatic    `yaml:"adiabatic_floors" json:"adiabatic_floors"`
	OutputFiles        idf.OutputControlFiles  `yaml:"output_files" json:"output_files"`
	Outputs            []idf.OutputVariables   `yaml:"outputs" json:"outputs"`
	VariableDictionary *idf.VariableDictionary `yaml:"variable_dictionary" json:"variable_dictionary"`
}

// New returns a model with every singleton object at its default.
func New(name string) *Model {
	return &Model{
		Header:            idf.DefaultHeader(),
		Building:          idf.DefaultBuilding(name),
		Algorithms:        idf.DefaultAlgorithms(),
		SimulationControl: idf.DefaultSimulationControl(),
		GeometryRules:     idf.DefaultGlobalGeometryRules(),
		OutputFiles:       idf.DefaultOutputControlFiles(),
	}
}

// Objects lists everything after the header in render order.
func (m *Model) Objects() []idf.Object {
	objs := []idf.Object{m.Building, m.Algorithms, m.SimulationControl}
	for _, o := range m.RunPeriods {
		objs = append(objs, o)
	}
	for _, o := range m.Materials {
		objs = append(objs, o)
	}
	for _, o := range m.NoMassMaterials {
		objs = append(objs, o)
	}
	for _, o := range m.Glazings {
		objs = append(objs, o)
	}
	for _, o := range m.Constructions {
		objs = append(objs, o)
	}
	if m.GroundTemperatures != nil {
		objs = append(objs, *m.GroundTemperatures)
	}
	for _, o := range m.Zones {
		objs = append(objs, o)
	}
	objs = append(objs, m.GeometryRules)
	for _, o := range m.Surfaces {
		objs = append(objs, o)
	}
	for _, o := range m.AdiabaticFloors {
		objs = append(objs, o)
	}
	objs = append(objs, m.OutputFiles)
	for _, o := range m.Outputs {
		objs = append(objs, o)
	}
	if m.VariableDictionary != nil {
		objs = append(objs, *m.VariableDictionary)
	}
	return objs
}

// Validate renders every object without writing anything.
func (m *Model) Validate() error {
	if m == nil {
		return errors.New("model is nil")
	}
	if _, err := m.Header.Records(); err != nil {
		return err
	}
	for _, o := range m.Objects() {
		if _, err := o.Records(); err != nil {
			return err
		}
	}
	return nil
}

// Count is the number of IDF objects the document renders, Version and
// Timestep included. Algorithms and each Output:Variable group expand to
// several objects.
func (m *Model) Count() (int, error) {
	recs, err := m.Header.Records()
	if err != nil {
		return 0, err
	}
	n := len(recs)
	for _, o := range m.Objects() {
		rs, err := o.Records()
		if err != nil {
			return 0, err
		}
		n += len(rs)
	}
	return n, nil
}

// Render writes the complete document to w.
func (m *Model) Render(w io.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}
	iw, err := idf.NewWriter(w, m.Header)
	if err != nil {
		return err
	}
	werr := iw.Write(m.Objects()...)
	return errors.Join(werr, iw.Close())
}

// Text renders the document into a string.
func (m *Model) Text() (string, error) {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders the document to path. The file is closed on every path;
// nothing is created when the model does not validate.
func (m *Model) WriteFile(path string) (err error) {
	if err := m.Validate(); err != nil {
		return err
	}
	w, err := idf.Create(path, m.Header)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := w.Write(m.Objects()...); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ZoneNames returns the declared zone names in order.
func (m *Model) ZoneNames() []string {
	out := make([]string, 0, len(m.Zones))
	for _, z := range m.Zones {
		out = append(out, z.Name)
	}
	return out
}
