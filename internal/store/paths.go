package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/cohortsim/internal/constants"
)

// GlobalDataPath returns the path to the global .cohortsim directory.
// On Unix: ~/.cohortsim
// On Windows: %USERPROFILE%\.cohortsim
func GlobalDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.DataDirName), nil
}

// LocalDataPath returns the path to the local .cohortsim directory
// for the given project root.
func LocalDataPath(projectRoot string) string {
	return filepath.Join(projectRoot, constants.DataDirName)
}

// DataPath resolves the data directory for a scope.
func DataPath(scope constants.Scope, projectRoot string) (string, error) {
	switch scope {
	case constants.ScopeLocal:
		return LocalDataPath(projectRoot), nil
	case constants.ScopeGlobal:
		return GlobalDataPath()
	default:
		return "", fmt.Errorf("invalid scope: %q (valid: local, global)", scope)
	}
}
