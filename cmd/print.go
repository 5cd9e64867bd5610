package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/gaurav-prasanna/notionpipe/core/assemble"
	"github.com/gaurav-prasanna/notionpipe/core/pipeline"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	errColor  = color.New(color.FgRed).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
)

// printReport writes one progress line per page.
func printReport(out, errOut io.Writer) func(pipeline.PageReport) {
	return func(r pipeline.PageReport) {
		switch {
		case r.Err != nil:
			fmt.Fprintf(errOut, "  %s %s: %v\n", errColor("✗"), r.PageID, r.Err)
		case r.Result.Status == assemble.StatusWriteFailed:
			fmt.Fprintf(errOut, "  %s Write error: %s: %v\n", errColor("✗"), r.Result.Path, r.Result.Err)
		case r.Result.Status == assemble.StatusUnchanged:
			fmt.Fprintf(out, "  %s Unchanged: %s\n", dimColor("="), r.Result.Path)
		default:
			fmt.Fprintf(out, "  %s Written: %s\n", okColor("✓"), r.Result.Path)
		}
		if r.Result.SkippedAssets > 0 {
			fmt.Fprintf(errOut, "    %s %d malformed image reference(s) skipped\n", warnColor("!"), r.Result.SkippedAssets)
		}
	}
}

func printSummary(out io.Writer, s pipeline.Summary) {
	line := fmt.Sprintf("%d databases, %d pages: %d written, %d unchanged, %d failed",
		s.Entries, s.Pages, s.Written, s.Unchanged, s.Failed)
	if s.Failed > 0 {
		fmt.Fprintf(out, "\n%s\n", warnColor(line))
		return
	}
	fmt.Fprintf(out, "\n%s\n", okColor(line))
}
