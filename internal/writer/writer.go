package writer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/daqconf/internal/compiler"
	"github.com/specialistvlad/daqconf/internal/ctxlog"
)

// BootFile is the name of the boot descriptor inside the output directory.
const BootFile = "boot.json"

// ErrOutputExists is returned when the output directory exists and
// overwriting was not requested.
var ErrOutputExists = errors.New("output directory already exists")

// Render returns the content of every output file keyed by its path
// relative to the output directory.
func Render(plan *compiler.Plan) (map[string][]byte, error) {
	files := make(map[string][]byte)

	put := func(rel string, v any) error {
		raw, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", rel, err)
		}
		if _, dup := files[rel]; dup {
			return fmt.Errorf("two outputs map to %s", rel)
		}
		files[rel] = append(raw, '\n')
		return nil
	}

	if err := put(BootFile, plan.Boot); err != nil {
		return nil, err
	}
	for _, sc := range plan.System {
		if err := put(string(sc.Verb)+".json", sc); err != nil {
			return nil, err
		}
		for app, rel := range sc.Apps {
			ac, ok := plan.App(app)
			if !ok {
				return nil, fmt.Errorf("system command %s references unknown app %q", sc.Verb, app)
			}
			cmd, ok := ac.Command(sc.Verb)
			if !ok {
				return nil, fmt.Errorf("app %q has no %s command", app, sc.Verb)
			}
			if err := put(filepath.FromSlash(rel)+".json", cmd); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

// Write renders plan and places it at dir. An existing dir is replaced only
// when force is set.
func Write(ctx context.Context, plan *compiler.Plan, dir string, force bool) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(dir); err == nil {
		if !force {
			return fmt.Errorf("%w: %s", ErrOutputExists, dir)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error accessing output directory %s: %w", dir, err)
	}

	files, err := Render(plan)
	if err != nil {
		return err
	}

	parent := filepath.Dir(filepath.Clean(dir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	paths := make([]string, 0, len(files))
	for rel := range files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		full := filepath.Join(tmp, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(full, files[rel], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
		logger.Debug("Output file staged.", "file", rel, "bytes", len(files[rel]))
	}

	if err := swap(tmp, dir); err != nil {
		return err
	}

	logger.Info("Configuration written.", "dir", dir, "files", len(files))
	return nil
}

// swap moves staged into dir, keeping the previous dir aside until the
// rename succeeded.
func swap(staged, dir string) error {
	old := ""
	if _, err := os.Stat(dir); err == nil {
		old = staged + ".old"
		if err := os.Rename(dir, old); err != nil {
			return fmt.Errorf("failed to move existing output aside: %w", err)
		}
	}
	if err := os.Rename(staged, dir); err != nil {
		if old != "" {
			_ = os.Rename(old, dir)
		}
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("failed to remove previous output: %w", err)
		}
	}
	return nil
}
