package idf

import (
	"fmt"
	"strings"
)

// OutputFiles lists the OutputControl:Files toggles in the order EnergyPlus
// 9.5 expects them.
var OutputFiles = [...]string{
	"CSV", "MTR", "ESO", "EIO", "Tabular", "SQLite", "JSON", "AUDIT",
	"Zone Sizing", "System Sizing", "DXF", "BND", "RDD", "MDD", "MTD", "END",
	"SHD", "DFS", "GLHE", "DelightIn", "DelightELdmp", "DelightDFdmp", "EDD",
	"DBG", "PerfLog", "SLN", "SCI", "WRL", "Screen", "ExtShd", "Tarcog",
}

// OutputControlFiles holds one toggle per entry of OutputFiles. The zero
// value turns everything off; DefaultOutputControlFiles is what EnergyPlus
// users usually want.
type OutputControlFiles struct {
	on [len(OutputFiles)]bool
}

// DefaultOutputControlFiles enables CSV, MTR, ESO and END.
func DefaultOutputControlFiles() OutputControlFiles {
	var o OutputControlFiles
	for _, name := range []string{"CSV", "MTR", "ESO", "END"} {
		o.on[fileIndex(name)] = true
	}
	return o
}

func fileIndex(name string) int {
	for i, f := range OutputFiles {
		if strings.EqualFold(f, name) {
			return i
		}
	}
	return -1
}

// With returns a copy of o with the given toggles overridden. Names match
// OutputFiles ignoring case. The receiver is left untouched.
func (o OutputControlFiles) With(overrides map[string]bool) (OutputControlFiles, error) {
	for name, v := range overrides {
		i := fileIndex(name)
		if i < 0 {
			return o, invalid("OutputControl:Files", "", name, "unknown output file toggle")
		}
		o.on[i] = v
	}
	return o, nil
}

// Enabled reports whether the named toggle is on. Unknown names report false.
func (o OutputControlFiles) Enabled(name string) bool {
	i := fileIndex(name)
	return i >= 0 && o.on[i]
}

// Toggles returns every toggle in output order.
func (o OutputControlFiles) Toggles() map[string]bool {
	m := make(map[string]bool, len(OutputFiles))
	for i, f := range OutputFiles {
		m[f] = o.on[i]
	}
	return m
}

func (o OutputControlFiles) Record() (Record, error) {
	r := newRecord("OutputControl:Files")
	for i, f := range OutputFiles {
		r.add(yesNo(o.on[i]), "Output "+f)
	}
	return r.build()
}

func (o OutputControlFiles) Records() ([]Record, error) { return single(o.Record()) }

// OutputRequest names one reported variable. An empty Key is the wildcard.
type OutputRequest struct {
	Key      string
	Variable string
}

// Req is shorthand for a wildcard request.
func Req(variable string) OutputRequest { return OutputRequest{Variable: variable} }

// KeyedReq requests variable for a single object.
func KeyedReq(key, variable string) OutputRequest {
	return OutputRequest{Key: key, Variable: variable}
}

func (q OutputRequest) key() string {
	if q.Key == "" {
		return "*"
	}
	return q.Key
}

func (q OutputRequest) String() string {
	return fmt.Sprintf("%s:%s", q.key(), q.Variable)
}

// OutputVariables writes one Output:Variable object per request, all at the
// same reporting frequency.
type OutputVariables struct {
	Frequency Frequency       `yaml:"frequency" json:"frequency" hcl:"frequency,optional"`
	Requests  []OutputRequest `yaml:"requests" json:"requests"`
}

func (o OutputVariables) Records() ([]Record, error) {
	const class = "Output:Variable"
	if err := checkKeyword(class, "", "Reporting Frequency", string(o.Frequency), false, frequencies...); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(o.Requests))
	for _, q := range o.Requests {
		r := newRecord(class)
		r.rec.Compact = true
		r.fail(checkName(class, q.Key, "Key Value", q.Key, false))
		r.fail(checkName(class, q.Key, "Variable Name", q.Variable, true))
		r.add(q.key(), "Key Value").
			add(q.Variable, "Variable Name").
			add(string(o.Frequency), "Reporting Frequency")
		rec, err := r.build()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// VariableDictionary asks EnergyPlus for eplusout.rdd. Format is IDF or
// regular; blank means IDF.
type VariableDictionary struct {
	Format string `yaml:"format" json:"format" hcl:"format,optional"`
}

func (d VariableDictionary) Record() (Record, error) {
	const class = "Output:VariableDictionary"
	format := d.Format
	if format == "" {
		format = "IDF"
	}
	r := newRecord(class)
	r.rec.Compact = true
	r.fail(checkKeyword(class, "", "Key Field", format, false, "IDF", "regular"))
	r.add(format, "Key Field")
	return r.build()
}

func (d VariableDictionary) Records() ([]Record, error) { return single(d.Record()) }
