package repo

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/oakvcs/oak/pkg/object"
)

// Init creates a new Oak repository at path. It creates the .oak/ directory
// structure (objects/ plus a default config) and returns an error if a
// .oak/ directory already exists.
func Init(path string) (*Repo, error) {
	oakDir := filepath.Join(path, ".oak")

	// Fail if .oak/ already exists.
	if _, err := os.Stat(oakDir); err == nil {
		return nil, errors.Errorf("init: repository already exists at %s", oakDir)
	}

	if err := os.MkdirAll(filepath.Join(oakDir, "objects"), 0o755); err != nil {
		return nil, errors.Wrap(err, "init: mkdir objects")
	}

	cfg := defaultConfig()
	if err := writeConfig(oakDir, cfg); err != nil {
		return nil, errors.Wrap(err, "init")
	}

	return &Repo{
		RootDir: path,
		OakDir:  oakDir,
		Store:   newStore(oakDir, cfg),
	}, nil
}

// Open searches upward from path for a .oak/ directory and opens the
// repository. Returns an error if no .oak/ directory is found.
func Open(path string) (*Repo, error) {
	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "open: abs path")
	}

	cur := abs
	for {
		oakDir := filepath.Join(cur, ".oak")
		info, err := os.Stat(oakDir)
		if err == nil && info.IsDir() {
			cfg, err := readConfig(oakDir)
			if err != nil {
				return nil, errors.Wrap(err, "open")
			}
			return &Repo{
				RootDir: cur,
				OakDir:  oakDir,
				Store:   newStore(oakDir, cfg),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .oak/.
			return nil, errors.New("open: not an oak repository (or any parent up to /)")
		}
		cur = parent
	}
}

func newStore(oakDir string, cfg *Config) *object.Store {
	return object.NewStoreWith(oakDir, object.StoreOptions{
		CompressionLevel: cfg.Store.CompressionLevel,
	})
}
