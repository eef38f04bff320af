//go:build !eplusapi

package capi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"greenhouse-eplus/internal/engine"
)

func TestNotBuilt(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, engine.ErrNotBuilt)
}
