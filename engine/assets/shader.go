package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// LoadShaderPair reads <dir>/<key>.vert and <dir>/<key>.frag. found is
// false when neither file exists, so callers can fall back to generated
// sources.
func LoadShaderPair(fsys fs.FS, dir, key string) (vs, fsrc string, found bool, err error) {
	v, verr := fs.ReadFile(fsys, path.Join(dir, key+".vert"))
	f, ferr := fs.ReadFile(fsys, path.Join(dir, key+".frag"))
	switch {
	case errors.Is(verr, fs.ErrNotExist) && errors.Is(ferr, fs.ErrNotExist):
		return "", "", false, nil
	case verr != nil:
		return "", "", false, fmt.Errorf("load shader %q: %w", key+".vert", verr)
	case ferr != nil:
		return "", "", false, fmt.Errorf("load shader %q: %w", key+".frag", ferr)
	}
	return string(v), string(f), true, nil
}
