package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsOrder(t *testing.T) {
	a := Args{OutputDir: "out", WeatherFile: "longreach.epw", IDFFile: "greenhouse.idf"}
	assert.Equal(t, []string{"-d", "out", "-w", "longreach.epw", "greenhouse.idf"}, a.Strings())

	a.ExpandObjects = true
	assert.Equal(t, []string{"-d", "out", "-w", "longreach.epw", "-x", "greenhouse.idf"}, a.Strings())
}

func TestInstallDir(t *testing.T) {
	t.Setenv("EPLUS_DIR", "/opt/eplus")
	assert.Equal(t, "/opt/eplus", InstallDir())

	assert.Equal(t, "/Applications/EnergyPlus-9-5-0", defaultInstallDir("darwin"))
	assert.Equal(t, `C:\EnergyPlusV9-5-0`, defaultInstallDir("windows"))
	assert.Equal(t, "/usr/local/EnergyPlus-9-5-0", defaultInstallDir("linux"))
}

func TestExecRejectsCallbacks(t *testing.T) {
	s, err := (&Exec{Dir: t.TempDir()}).NewSession()
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.RequestVariable("Zone Air Temperature", "MAINZ"))
	assert.ErrorIs(t, s.OnEndOfZoneTimeStep(func(Exchange) {}), ErrCallbacksUnsupported)
}

func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a unix shell")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "energyplus"), []byte("#!/bin/sh\n"+script), 0o755))
	return dir
}

func TestExecRun(t *testing.T) {
	dir := fakeBinary(t, `mkdir -p "$2" && echo "$@" > "$2/args.txt"`+"\n")
	out := filepath.Join(t.TempDir(), "out")

	s, err := (&Exec{Dir: dir}).NewSession()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Run(context.Background(), Args{OutputDir: out, WeatherFile: "w.epw", IDFFile: "m.idf"}))
	got, err := os.ReadFile(filepath.Join(out, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, "-d "+out+" -w w.epw m.idf\n", string(got))

	err = s.Run(context.Background(), Args{})
	assert.ErrorContains(t, err, "already ran")
}

func TestExecExitCode(t *testing.T) {
	dir := fakeBinary(t, "exit 3\n")
	s, err := (&Exec{Dir: dir}).NewSession()
	require.NoError(t, err)
	defer s.Close()

	err = s.Run(context.Background(), Args{OutputDir: "o", WeatherFile: "w", IDFFile: "i"})
	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.Code)
}

func TestExecCancelled(t *testing.T) {
	dir := fakeBinary(t, "sleep 5\n")
	s, err := (&Exec{Dir: dir}).NewSession()
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Run(ctx, Args{OutputDir: "o", WeatherFile: "w", IDFFile: "i"})
	assert.ErrorIs(t, err, context.Canceled)
}
