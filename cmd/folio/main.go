package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-folio/cmd/folio/internal/bootstrap"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
)

type buildHandler interface {
	Execute(context.Context, sitecmd.BuildSiteCommand) error
}

type feedHandler interface {
	Execute(context.Context, sitecmd.BuildFeedCommand) error
}

type validateHandler interface {
	Execute(context.Context, sitecmd.ValidateContentCommand) error
}

type cleanHandler interface {
	Execute(context.Context, sitecmd.CleanSiteCommand) error
}

type handlerSet struct {
	build    buildHandler
	feed     feedHandler
	validate validateHandler
	clean    cleanHandler
}

type moduleOptions struct {
	configPath string
	outputDir  string
	logLevel   string
	logWriter  io.Writer
}

type moduleResources struct {
	handlers   handlerSet
	outputDir  string
	configPath string
}

var moduleBuilder = defaultModuleBuilder

func defaultModuleBuilder(opts moduleOptions) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(bootstrap.Options{
		ConfigPath: opts.configPath,
		OutputDir:  opts.outputDir,
		LogLevel:   opts.logLevel,
		LogWriter:  opts.logWriter,
	})
	if err != nil {
		return nil, err
	}
	m := module.Module
	return &moduleResources{
		handlers: handlerSet{
			build:    m.BuildSiteHandler(),
			feed:     m.BuildFeedHandler(),
			validate: m.ValidateContentHandler(),
			clean:    m.CleanSiteHandler(),
		},
		outputDir:  module.Config.Generator.OutputDir,
		configPath: module.ConfigPath,
	}, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
