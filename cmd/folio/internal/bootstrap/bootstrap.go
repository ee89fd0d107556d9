package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/internal/di"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultConfigFile is read when no --config flag is given and the file exists.
const DefaultConfigFile = "folio.yaml"

// Options captures configuration for CLI bootstraps.
type Options struct {
	ConfigPath     string
	OutputDir      string
	LogLevel       string
	LogWriter      io.Writer
	ContentFS      fs.FS
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the folio module and the configuration it was built from.
type Module struct {
	Module     *folio.Module
	Config     folio.Config
	ConfigPath string
}

// LoadConfig resolves the configuration for opts. An explicit path must
// exist; the default file is optional and DefaultConfig is used without it.
func LoadConfig(opts Options) (folio.Config, string, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	cfg, err := folio.LoadConfig(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg, path = folio.DefaultConfig(), ""
	default:
		return folio.Config{}, "", err
	}

	if out := strings.TrimSpace(opts.OutputDir); out != "" {
		cfg.Generator.OutputDir = out
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, path, nil
}

// BuildModule loads the configuration and constructs a folio module.
func BuildModule(opts Options) (*Module, error) {
	cfg, path, err := LoadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	diOpts := []di.Option{}
	if opts.LogWriter != nil {
		diOpts = append(diOpts, di.WithLogWriter(opts.LogWriter))
	} else {
		diOpts = append(diOpts, di.WithLogWriter(os.Stderr))
	}
	if opts.ContentFS != nil {
		diOpts = append(diOpts, di.WithContentFS(opts.ContentFS))
	}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := folio.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise folio module: %w", err)
	}
	return &Module{Module: module, Config: cfg, ConfigPath: path}, nil
}
