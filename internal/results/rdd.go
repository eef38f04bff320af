package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DictionaryFile is the report variable dictionary written when the model
// carries an Output:VariableDictionary object.
const DictionaryFile = "eplusout.rdd"

// Variable is one entry of the report variable dictionary.
type Variable struct {
	Name       string `json:"name"`
	Units      string `json:"units,omitempty"`
	TimeStep   string `json:"time_step,omitempty"`   // Zone or HVAC
	ReportType string `json:"report_type,omitempty"` // Average or Sum
}

// LoadVariableDictionary reads eplusout.rdd from an output folder.
func LoadVariableDictionary(outputDir string) ([]Variable, error) {
	path := filepath.Join(outputDir, DictionaryFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variable dictionary: %w", err)
	}
	defer f.Close()
	vars, err := ReadVariableDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// ReadVariableDictionary parses both dictionary forms EnergyPlus writes:
//
//	Zone,Average,Site Outdoor Air Drybulb Temperature [C]
//	Output:Variable,*,Site Outdoor Air Drybulb Temperature,hourly; !- Zone Average [C]
func ReadVariableDictionary(r io.Reader) ([]Variable, error) {
	var out []Variable
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		switch {
		case s == "", strings.HasPrefix(s, "!"),
			strings.HasPrefix(s, "Program Version"),
			strings.HasPrefix(s, "Var Type"):
			continue
		case strings.HasPrefix(strings.ToLower(s), "output:variable,"):
			v, err := parseIDFEntry(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			out = append(out, v)
		default:
			v, err := parseRegularEntry(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			out = append(out, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseRegularEntry(s string) (Variable, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 {
		return Variable{}, fmt.Errorf("malformed entry %q", s)
	}
	name, units := splitUnits(parts[2])
	return Variable{
		Name:       name,
		Units:      units,
		TimeStep:   strings.TrimSpace(parts[0]),
		ReportType: strings.TrimSpace(parts[1]),
	}, nil
}

func parseIDFEntry(s string) (Variable, error) {
	body, note, _ := strings.Cut(s, "!-")
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return Variable{}, fmt.Errorf("malformed entry %q", s)
	}
	v := Variable{Name: strings.TrimSpace(parts[2])}
	// The note reads "Zone Average [C]".
	note, v.Units = splitUnits(note)
	if f := strings.Fields(note); len(f) == 2 {
		v.TimeStep, v.ReportType = f[0], f[1]
	}
	return v, nil
}

func splitUnits(s string) (string, string) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "]") {
		return s, ""
	}
	i := strings.LastIndex(s, "[")
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), s[i+1 : len(s)-1]
}
