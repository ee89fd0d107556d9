package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/generator"
)

func newBuildCommand(c *cli) *cobra.Command {
	var (
		out         string
		dryRun      bool
		strict      bool
		collections []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Load every collection and write feeds, indexes and site data",
		Long: `The build command loads the configured collections once and writes the
RSS and Atom feeds, the entry indexes, sitemap.xml, robots.txt and the data
tables to the output directory. Files failing validation are reported and
skipped unless --strict is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resources, err := c.module(out)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			if resources.handlers.build == nil {
				return errors.New("build handler not configured")
			}

			var result *generator.BuildResult
			err = resources.handlers.build.Execute(cmd.Context(), sitecmd.BuildSiteCommand{
				Collections:    collections,
				DryRun:         dryRun,
				Strict:         strict,
				ResultCallback: func(env sitecmd.ResultEnvelope) { result = env.Result },
			})
			if result != nil {
				printFailures(c.stderr, result.Collections)
				printBuildSummary(cmd.OutOrStdout(), result)
			}
			if err != nil {
				if errors.Is(err, generator.ErrStrictBuild) && result != nil {
					return fmt.Errorf("strict build aborted: %d file(s) failed", len(result.Failures()))
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output directory (overrides generator.output_dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the artifacts without writing them")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any file is excluded by validation")
	cmd.Flags().StringSliceVar(&collections, "collection", nil, "limit the build to these collections")
	return cmd
}

func newFeedCommand(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "feed <collection>",
		Short: "Print the feed of a collection to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := c.module("")
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			if resources.handlers.feed == nil {
				return errors.New("feed handler not configured")
			}

			var document []byte
			err = resources.handlers.feed.Execute(cmd.Context(), sitecmd.BuildFeedCommand{
				Collection:     args[0],
				Format:         format,
				ResultCallback: func(env sitecmd.FeedEnvelope) { document = env.Document },
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(document)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", sitecmd.FormatRSS, "feed format: rss or atom")
	return cmd
}

func newValidateCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [collections...]",
		Short: "Check front-matter of every file without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := c.module("")
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			if resources.handlers.validate == nil {
				return errors.New("validate handler not configured")
			}

			var report sitecmd.ValidationReport
			err = resources.handlers.validate.Execute(cmd.Context(), sitecmd.ValidateContentCommand{
				Collections:    args,
				ResultCallback: func(r sitecmd.ValidationReport) { report = r },
			})
			printValidationReport(cmd.OutOrStdout(), c.stderr, report)
			if errors.Is(err, sitecmd.ErrContentFailures) {
				return fmt.Errorf("%d file(s) failed validation", report.Failures())
			}
			return err
		},
	}
}

func newCleanCommand(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resources, err := c.module(out)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}
			if resources.handlers.clean == nil {
				return errors.New("clean handler not configured")
			}
			if err := resources.handlers.clean.Execute(cmd.Context(), sitecmd.CleanSiteCommand{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", resources.outputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output directory (overrides generator.output_dir)")
	return cmd
}
