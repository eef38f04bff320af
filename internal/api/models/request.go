package models

import (
	"encoding/json"

	"greenhouse-eplus/internal/control"
)

// RunRequest is the body of POST /api/v1/runs. Exactly one of Model,
// ModelName and Preset selects the building.
type RunRequest struct {
	// Model is a building model in its JSON form.
	Model json.RawMessage `json:"model,omitempty"`
	// ModelName is a file in the models directory.
	ModelName string `json:"model_name,omitempty"`
	Preset    string `json:"preset,omitempty"`

	// WeatherFile is a file name in the weather directory.
	WeatherFile   string `json:"weather_file" binding:"required"`
	Log           bool   `json:"log"`
	ExpandObjects bool   `json:"expand_objects"`

	// Control overlays the default controller settings.
	Control control.Settings `json:"control"`
}

// SeriesQuery is the query of GET /api/v1/runs/:id/series.
type SeriesQuery struct {
	Column string `form:"column" binding:"required"`
	From   int    `form:"from"`
	To     int    `form:"to"` // 0 = end
}
