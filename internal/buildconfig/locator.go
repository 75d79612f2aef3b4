package buildconfig

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Locator returns the absolute path of the configuration file.
type Locator func() (string, error)

// Caller returns a Locator reporting the source file of the function skip frames above
// the caller of Caller. Caller(0) locates the file that calls Caller.
//
// The path is recorded at compile time, so it is stable regardless of the working directory
// the process is started from. Binaries built with -trimpath only carry module relative
// paths, which are rejected.
func Caller(skip int) Locator {
	_, file, _, ok := runtime.Caller(skip + 1)

	return func() (string, error) {
		if !ok || file == "" {
			return "", ErrSelfLocation
		}

		return Static(file)()
	}
}

// Static returns a Locator for a known configuration file path which must be absolute.
func Static(file string) Locator {
	return func() (string, error) {
		if !filepath.IsAbs(file) {
			return "", fmt.Errorf("%w: %q is not an absolute path", ErrSelfLocation, file)
		}
		return filepath.Clean(file), nil
	}
}
