// Package path locates the repository root by walking upwards from a start
// directory until a marker entry is found. The config loader (.env) and the
// migration runner (migrations/) both use it so binaries and tests resolve
// the same files no matter where they were started from.
package path

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot returns the first ancestor of startDir (inclusive) containing an
// entry named targetName of the requested kind.
func FindRoot(startDir, targetName string, isDir bool) (string, error) {
	for dir := startDir; ; dir = filepath.Dir(dir) {
		if info, err := os.Stat(filepath.Join(dir, targetName)); err == nil && info.IsDir() == isDir {
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			return "", fmt.Errorf("no %s found above %s", targetName, startDir)
		}
	}
}
