package main

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/schema"
)

// failureLines renders one excluded file as "path: field: reason" lines,
// one per failing field.
func failureLines(collection string, failure collections.Failure) []string {
	p := path.Join(collection, failure.Path)

	var verr *schema.ValidationError
	if errors.As(failure.Err, &verr) && len(verr.Issues) > 0 {
		lines := make([]string, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			lines = append(lines, fmt.Sprintf("%s: %s: %s", p, issue.Field, issue.Message))
		}
		return lines
	}

	var merr *collections.MalformedDocumentError
	if errors.As(failure.Err, &merr) {
		return []string{fmt.Sprintf("%s: front-matter: %v", p, merr.Err)}
	}
	return []string{fmt.Sprintf("%s: %v", p, failure.Err)}
}

func printFailures(w io.Writer, reports []generator.CollectionReport) {
	for _, report := range reports {
		for _, failure := range report.Failures {
			for _, line := range failureLines(report.Name, failure) {
				fmt.Fprintln(w, line)
			}
		}
	}
}

func printBuildSummary(w io.Writer, result *generator.BuildResult) {
	for _, report := range result.Collections {
		fmt.Fprintf(w, "%s: %d entries, %d published, %d failed\n",
			report.Name, report.Entries, report.Published, len(report.Failures))
	}
	verb := "wrote"
	if result.DryRun {
		verb = "would write"
	}
	for _, artifact := range result.Artifacts {
		fmt.Fprintf(w, "%s %s (%d bytes)\n", verb, artifact.Path, artifact.Size)
	}
	fmt.Fprintf(w, "%d artifact(s) in %s\n", len(result.Artifacts), result.Duration.Round(time.Millisecond))
}

func printValidationReport(out, errOut io.Writer, report sitecmd.ValidationReport) {
	for _, result := range report.Results {
		if result == nil {
			continue
		}
		for _, failure := range result.Failures {
			for _, line := range failureLines(result.Collection, failure) {
				fmt.Fprintln(errOut, line)
			}
		}
		fmt.Fprintf(out, "%s: %d valid, %d failed\n", result.Collection, len(result.Entries), len(result.Failures))
	}
}
