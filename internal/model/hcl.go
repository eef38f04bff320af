package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"greenhouse-eplus/internal/idf"
)

// An HCL model is a list of labeled blocks, one per object, plus an optional
// variables block whose attributes can be referenced from any expression:
//
//	variables {
//	  H = 10
//	}
//	zone "MAINZ" {}
//	surface "SouthWall" {
//	  type         = "Wall"
//	  construction = "GHWALL"
//	  zone         = "MAINZ"
//	  vertices     = [[0, 0, H], [0, 0, 0], [50, 0, 0], [50, 0, H]]
//	}
//	output "Hourly" {
//	  requests = ["Site Sky Temperature", ["GHRoof", "Surface Inside Face Temperature"]]
//	}
//
// Each block body is decoded on top of the object's defaults.

type hclBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type hclNamedBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclModelFile struct {
	Header             *hclBlock       `hcl:"header,block"`
	Building           *hclNamedBlock  `hcl:"building,block"`
	Algorithms         *hclBlock       `hcl:"algorithms,block"`
	SimulationControl  *hclBlock       `hcl:"simulation_control,block"`
	RunPeriods         []hclNamedBlock `hcl:"run_period,block"`
	Materials          []hclNamedBlock `hcl:"material,block"`
	NoMassMaterials    []hclNamedBlock `hcl:"material_nomass,block"`
	Glazings           []hclNamedBlock `hcl:"window_glazing,block"`
	Constructions      []hclNamedBlock `hcl:"construction,block"`
	GroundTemperatures []float64       `hcl:"ground_temperatures,optional"`
	Zones              []hclNamedBlock `hcl:"zone,block"`
	GeometryRules      *hclBlock       `hcl:"geometry_rules,block"`
	Surfaces           []hclNamedBlock `hcl:"surface,block"`
	AdiabaticFloors    []hclNamedBlock `hcl:"floor_adiabatic,block"`
	OutputFiles        map[string]bool `hcl:"output_files,optional"`
	Outputs            []hclNamedBlock `hcl:"output,block"`
	VariableDictionary *hclBlock       `hcl:"variable_dictionary,block"`
}

var variablesSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "variables"}},
}

func parseHCL(data []byte, filename string) (*Model, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}

	content, rest, diags := file.Body.PartialContent(variablesSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	ctx, err := evalVariables(content.Blocks)
	if err != nil {
		return nil, err
	}

	var f hclModelFile
	if diags := gohcl.DecodeBody(rest, ctx, &f); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", filename, diags)
	}
	return f.model(ctx)
}

func evalVariables(blocks hcl.Blocks) (*hcl.EvalContext, error) {
	vars := map[string]cty.Value{}
	for _, b := range blocks {
		attrs, diags := b.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for name, attr := range attrs {
			if _, dup := vars[name]; dup {
				return nil, fmt.Errorf("%s: variable %q is defined twice", attr.Range, name)
			}
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			vars[name] = v
		}
	}
	return &hcl.EvalContext{Variables: vars}, nil
}

func decodeBlock(body hcl.Body, ctx *hcl.EvalContext, into any) error {
	if diags := gohcl.DecodeBody(body, ctx, into); diags.HasErrors() {
		return diags
	}
	return nil
}

func (f *hclModelFile) model(ctx *hcl.EvalContext) (*Model, error) {
	m := New("")
	if f.Header != nil {
		if err := decodeBlock(f.Header.Body, ctx, &m.Header); err != nil {
			return nil, err
		}
	}
	if f.Building != nil {
		m.Building.Name = f.Building.Name
		if err := decodeBlock(f.Building.Body, ctx, &m.Building); err != nil {
			return nil, err
		}
	}
	if f.Algorithms != nil {
		if err := decodeBlock(f.Algorithms.Body, ctx, &m.Algorithms); err != nil {
			return nil, err
		}
	}
	if f.SimulationControl != nil {
		if err := decodeBlock(f.SimulationControl.Body, ctx, &m.SimulationControl); err != nil {
			return nil, err
		}
	}
	for _, b := range f.RunPeriods {
		v := idf.DefaultRunPeriod(b.Name)
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.RunPeriods = append(m.RunPeriods, v)
	}
	for _, b := range f.Materials {
		v := idf.DefaultMaterial(b.Name)
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.Materials = append(m.Materials, v)
	}
	for _, b := range f.NoMassMaterials {
		v := idf.DefaultMaterialNoMass(b.Name)
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.NoMassMaterials = append(m.NoMassMaterials, v)
	}
	for _, b := range f.Glazings {
		v := idf.DefaultWindowGlazing()
		v.Name = b.Name
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.Glazings = append(m.Glazings, v)
	}
	for _, b := range f.Constructions {
		v := idf.Construction{Name: b.Name}
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.Constructions = append(m.Constructions, v)
	}
	if f.GroundTemperatures != nil {
		if len(f.GroundTemperatures) != 12 {
			return nil, fmt.Errorf("ground_temperatures needs 12 monthly values, got %d", len(f.GroundTemperatures))
		}
		var g idf.GroundTemperatures
		copy(g[:], f.GroundTemperatures)
		m.GroundTemperatures = &g
	}
	for _, b := range f.Zones {
		v := idf.DefaultZone(b.Name)
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.Zones = append(m.Zones, v)
	}
	if f.GeometryRules != nil {
		if err := decodeBlock(f.GeometryRules.Body, ctx, &m.GeometryRules); err != nil {
			return nil, err
		}
	}
	for _, b := range f.Surfaces {
		v, err := decodeSurface(b, ctx)
		if err != nil {
			return nil, err
		}
		m.Surfaces = append(m.Surfaces, v)
	}
	for _, b := range f.AdiabaticFloors {
		v := idf.DefaultFloorAdiabatic(b.Name, "", "", 0, 0)
		if err := decodeBlock(b.Body, ctx, &v); err != nil {
			return nil, err
		}
		m.AdiabaticFloors = append(m.AdiabaticFloors, v)
	}
	if f.OutputFiles != nil {
		files, err := idf.DefaultOutputControlFiles().With(f.OutputFiles)
		if err != nil {
			return nil, err
		}
		m.OutputFiles = files
	}
	for _, b := range f.Outputs {
		v, err := decodeOutputs(b, ctx)
		if err != nil {
			return nil, err
		}
		m.Outputs = append(m.Outputs, v)
	}
	if f.VariableDictionary != nil {
		var d idf.VariableDictionary
		if err := decodeBlock(f.VariableDictionary.Body, ctx, &d); err != nil {
			return nil, err
		}
		m.VariableDictionary = &d
	}
	return m, nil
}

var surfaceSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "vertices", Required: true}},
}

func decodeSurface(b hclNamedBlock, ctx *hcl.EvalContext) (idf.BuildingSurface, error) {
	v := idf.DefaultBuildingSurface(b.Name, "", "", "")
	content, rest, diags := b.Body.PartialContent(surfaceSchema)
	if diags.HasErrors() {
		return v, diags
	}
	var coords [][]float64
	if diags := gohcl.DecodeExpression(content.Attributes["vertices"].Expr, ctx, &coords); diags.HasErrors() {
		return v, diags
	}
	for i, c := range coords {
		if len(c) != 3 {
			return v, fmt.Errorf("surface %q: vertex %d needs 3 coordinates, got %d", b.Name, i+1, len(c))
		}
		v.Vertices = append(v.Vertices, idf.V(c[0], c[1], c[2]))
	}
	if err := decodeBlock(rest, ctx, &v); err != nil {
		return v, err
	}
	return v, nil
}

var outputSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "requests", Required: true}},
}

// decodeOutputs reads an output block. Its label is the reporting frequency
// and each request is a variable name or a [key, name] pair.
func decodeOutputs(b hclNamedBlock, ctx *hcl.EvalContext) (idf.OutputVariables, error) {
	out := idf.OutputVariables{Frequency: idf.Frequency(b.Name)}
	content, diags := b.Body.Content(outputSchema)
	if diags.HasErrors() {
		return out, diags
	}
	val, diags := content.Attributes["requests"].Expr.Value(ctx)
	if diags.HasErrors() {
		return out, diags
	}
	if !val.CanIterateElements() {
		return out, fmt.Errorf("output %q: requests must be a list", b.Name)
	}
	for it := val.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type() == cty.String {
			out.Requests = append(out.Requests, idf.Req(ev.AsString()))
			continue
		}
		pair, err := convert.Convert(ev, cty.List(cty.String))
		if err != nil {
			return out, fmt.Errorf("output %q: request must be a name or a [key, name] pair: %w", b.Name, err)
		}
		var kv []string
		if err := gocty.FromCtyValue(pair, &kv); err != nil {
			return out, err
		}
		if len(kv) != 2 {
			return out, fmt.Errorf("output %q: request pair needs 2 elements, got %d", b.Name, len(kv))
		}
		out.Requests = append(out.Requests, idf.KeyedReq(kv[0], kv[1]))
	}
	return out, nil
}
