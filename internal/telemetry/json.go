package telemetry

import "encoding/json"

// MarshalJSON omits the forecast when there is none; encoding/json cannot
// represent NaN.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	w := struct {
		plain
		Forecast *float64 `json:"forecast_drybulb_c,omitempty"`
	}{plain: plain(r)}
	if r.HasForecast() {
		f := r.Forecast
		w.Forecast = &f
	}
	return json.Marshal(w)
}
