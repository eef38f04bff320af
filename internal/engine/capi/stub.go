//go:build !eplusapi

package capi

import "greenhouse-eplus/internal/engine"

// Runtime is unavailable in builds without the eplusapi tag.
type Runtime struct{}

// New always fails with engine.ErrNotBuilt.
func New() (*Runtime, error) { return nil, engine.ErrNotBuilt }

func (r *Runtime) Name() string { return "capi" }

func (r *Runtime) NewSession() (engine.Session, error) { return nil, engine.ErrNotBuilt }
