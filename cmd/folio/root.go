package main

import (
	"io"

	"github.com/spf13/cobra"
)

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - content pipeline for the parda.me blog",
		Long: `folio loads the Markdown collections of the site, validates their
front-matter and writes feeds, entry indexes, the sitemap and site data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default is ./folio.yaml when present)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newBuildCommand(c),
		newFeedCommand(c),
		newValidateCommand(c),
		newCleanCommand(c),
	)
	return root
}

func (c *cli) module(outputDir string) (*moduleResources, error) {
	return moduleBuilder(moduleOptions{
		configPath: c.configPath,
		outputDir:  outputDir,
		logLevel:   c.logLevel,
		logWriter:  c.stderr,
	})
}
