// This file is part of Chessboard.
//
// Chessboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Chessboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Chessboard.  If not, see <https://www.gnu.org/licenses/>.

package paths

import (
	"os"
	"path/filepath"
)

// the base path for all resources. the getBasePath() function should be used
// rather than this value directly.
const baseResourcePath = ".chessboard"

// ResourcePath returns the resource string prepended with the base resource
// path. The last element of resource is treated as a filename, any preceding
// elements as directories which will be created if necessary.
func ResourcePath(resource ...string) (string, error) {
	base, err := getBasePath()
	if err != nil {
		return "", err
	}

	p := make([]string, 0, len(resource)+1)
	p = append(p, base)
	p = append(p, resource...)
	pth := filepath.Join(p...)

	if len(resource) > 1 {
		dir := filepath.Join(p[:len(p)-1]...)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", err
		}
	}

	return pth, nil
}

// getBasePath returns baseResourcePath if it exists in the current directory.
// Otherwise the equivalent directory in the user's config directory is
// returned, after being created if necessary.
func getBasePath() (string, error) {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath, nil
	}

	pth := filepath.Join(cnf, baseResourcePath[1:])
	if err := os.MkdirAll(pth, 0o700); err != nil {
		return "", err
	}

	return pth, nil
}
