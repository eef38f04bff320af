package results

import "strings"

// Label is a parsed eplusout.csv column name such as
// "MAINZ:Zone Air Temperature [C](Hourly)".
type Label struct {
	Key       string `json:"key"`
	Variable  string `json:"variable"`
	Units     string `json:"units,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// ParseLabel splits a column name. Parts that are missing stay empty; a name
// without a key is returned as the variable.
func ParseLabel(col string) Label {
	var l Label
	s := strings.TrimSpace(col)
	if strings.HasSuffix(s, ")") {
		if i := strings.LastIndex(s, "("); i >= 0 {
			l.Frequency = s[i+1 : len(s)-1]
			s = strings.TrimSpace(s[:i])
		}
	}
	if strings.HasSuffix(s, "]") {
		if i := strings.LastIndex(s, "["); i >= 0 {
			l.Units = s[i+1 : len(s)-1]
			s = strings.TrimSpace(s[:i])
		}
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		l.Key = strings.TrimSpace(s[:i])
		s = strings.TrimSpace(s[i+1:])
	}
	l.Variable = s
	return l
}

// Column rebuilds the eplusout.csv column name.
func (l Label) Column() string {
	var b strings.Builder
	if l.Key != "" {
		b.WriteString(l.Key)
		b.WriteByte(':')
	}
	b.WriteString(l.Variable)
	if l.Units != "" {
		b.WriteString(" [" + l.Units + "]")
	}
	if l.Frequency != "" {
		b.WriteString("(" + l.Frequency + ")")
	}
	return b.String()
}
