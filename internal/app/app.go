package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/daqconf/internal/config"
	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/fsutil"
	"github.com/specialistvlad/daqconf/internal/hcl"
	"github.com/specialistvlad/daqconf/internal/yamldesc"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
}

// NewApp is the constructor for the main application. A nil loader selects
// one from the description path's file extensions.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		var err error
		loader, err = LoaderFor(cfg.DescriptionPath)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("Description loader selected.", "loader", fmt.Sprintf("%T", loader))

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}, nil
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// LoaderFor picks the description loader for path. A file is matched by its
// extension. A directory is read as YAML only when it holds YAML files and
// no HCL files.
func LoaderFor(path string) (config.Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing description path %s: %w", path, err)
	}

	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".hcl":
			return hcl.NewLoader(), nil
		case ".yaml", ".yml":
			return yamldesc.NewLoader(), nil
		default:
			return nil, fmt.Errorf("unsupported description file %s: expected .hcl, .yaml or .yml", path)
		}
	}

	hclFiles, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, err
	}
	yamlFiles, err := fsutil.FindFilesByExtension(path, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 && len(yamlFiles) > 0 {
		return yamldesc.NewLoader(), nil
	}
	return hcl.NewLoader(), nil
}
