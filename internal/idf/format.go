package idf

import (
	"math"
	"strconv"
	"strings"
)

// num formats v with prec decimals, the precision the IDF files of this tool
// have always used. When that would drop digits the shortest exact form is
// used instead, so 1.73 with prec 1 prints as 1.73 rather than 1.7.
func num(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if p, err := strconv.ParseFloat(s, 64); err == nil && p == v {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func integer(v int) string { return strconv.Itoa(v) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

const autocalculate = "autocalculate"

func autoNum(v *float64, prec int) string {
	if v == nil {
		return autocalculate
	}
	return num(*v, prec)
}

// checkName rejects values that would break the comma/semicolon grammar.
func checkName(class, name, field, value string, required bool) *ValidationError {
	if required && strings.TrimSpace(value) == "" {
		return invalid(class, name, field, "is required")
	}
	if strings.ContainsAny(value, ",;!\n\r") {
		return invalid(class, name, field, "%q contains one of , ; ! or a line break", value)
	}
	return nil
}

func checkFinite(class, name, field string, v float64) *ValidationError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(class, name, field, "must be a finite number, got %v", v)
	}
	return nil
}

// checkKeyword accepts value when it matches one of allowed, ignoring case,
// the way EnergyPlus reads choice fields. A blank value passes when optional.
func checkKeyword(class, name, field, value string, optional bool, allowed ...string) *ValidationError {
	if value == "" {
		if optional {
			return nil
		}
		return invalid(class, name, field, "is required")
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return invalid(class, name, field, "%q is not one of %s", value, strings.Join(allowed, ", "))
}
