package of

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a firmware description from path, choosing the format from
// the extension: .yaml or .yml, .hcl, or a directory.
func Load(path string) (*Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data, path)
	case ".hcl":
		return LoadHCL(data, path)
	default:
		return nil, fmt.Errorf("%s: unknown firmware description format", path)
	}
}
