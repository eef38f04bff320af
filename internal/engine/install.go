package engine

import (
	"os"
	"path/filepath"
	"runtime"
)

// InstallDir is the EnergyPlus 9.5 installation directory: $EPLUS_DIR when
// set, otherwise the platform's default install location.
func InstallDir() string {
	if dir := os.Getenv("EPLUS_DIR"); dir != "" {
		return dir
	}
	return defaultInstallDir(runtime.GOOS)
}

func defaultInstallDir(goos string) string {
	switch goos {
	case "darwin":
		return "/Applications/EnergyPlus-9-5-0"
	case "windows":
		return `C:\EnergyPlusV9-5-0`
	default:
		return "/usr/local/EnergyPlus-9-5-0"
	}
}

// Binary is the path of the energyplus executable inside dir.
func Binary(dir string) string {
	name := "energyplus"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name)
}

// Installed reports whether an energyplus executable exists in dir.
func Installed(dir string) bool {
	fi, err := os.Stat(Binary(dir))
	return err == nil && !fi.IsDir()
}
