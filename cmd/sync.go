// Package cmd: sync command.
// Wires the pipeline: remote client → mapper → assembler → files, and runs
// it over every configured database.
package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/notionpipe/config"
	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/assemble"
	"github.com/gaurav-prasanna/notionpipe/core/asset"
	"github.com/gaurav-prasanna/notionpipe/core/body"
	"github.com/gaurav-prasanna/notionpipe/core/fetch"
	"github.com/gaurav-prasanna/notionpipe/core/ledger"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
	"github.com/gaurav-prasanna/notionpipe/core/mapper"
	"github.com/gaurav-prasanna/notionpipe/core/notion"
	"github.com/gaurav-prasanna/notionpipe/core/output"
	"github.com/gaurav-prasanna/notionpipe/core/paths"
	"github.com/gaurav-prasanna/notionpipe/core/pipeline"
	"github.com/gaurav-prasanna/notionpipe/core/property"
	"github.com/gaurav-prasanna/notionpipe/core/render"
)

// Sync flag variables.
var (
	flagRoot string
	flagJSON bool
	flagPDF  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write every page of the configured databases as Markdown",
	Long: `Sync lists the pages of each configured database, converts their properties
to front matter and their body to Markdown, re-hosts embedded images and
writes <root>/[<lang>/]<slug>.md.

Without NOTION_SECRET or a content root the sync is skipped.

Examples:
  notionpipe sync
  notionpipe sync --root ./content --json
  notionpipe sync --config notionpipe.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&flagRoot, "root", "", "Content root (default from CONTENT_ROOT, ./md)")
	syncCmd.Flags().BoolVar(&flagJSON, "json", false, "Also write a JSON export next to each document")
	syncCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Also write a PDF export next to each document")
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagEnvFile, flagConfig)
	if err != nil {
		return err
	}
	applySyncFlags(cfg)

	provider, err := newLogging(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	log := logging.Module(provider, "notionpipe.sync")

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if reason := cfg.SkipReason(); reason != "" {
		log.Warn("skipping sync", "reason", reason)
		fmt.Fprintf(out, "%s Sync skipped: %s\n", warnColor("!"), reason)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := notion.New(notion.Config{
		Token:   cfg.Secret,
		Timeout: cfg.RequestTimeout,
		Retries: 3,
	}, logging.Module(provider, "notionpipe.notion"))
	if err := client.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	orchestrator, closeFn, err := buildPipeline(cfg, client, provider, out, errOut)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Fprintf(out, "Syncing %d database(s) into %s\n", len(cfg.Entries()), cfg.ContentRoot)
	summary, err := orchestrator.Run(ctx, cfg.Entries())
	printSummary(out, summary)
	return err
}

func applySyncFlags(cfg *config.Config) {
	if flagRoot != "" {
		if cfg.AssetRoot == cfg.ContentRoot {
			cfg.AssetRoot = flagRoot
		}
		cfg.ContentRoot = flagRoot
	}
	if flagJSON && !cfg.HasExport("json") {
		cfg.ExportFormats = append(cfg.ExportFormats, "json")
	}
	if flagPDF && !cfg.HasExport("pdf") {
		cfg.ExportFormats = append(cfg.ExportFormats, "pdf")
	}
}

// remote is what the pipeline needs from the content store.
type remote interface {
	core.PageLister
	core.BlockSource
}

// buildPipeline assembles the stages. The returned func closes the ledger.
func buildPipeline(cfg *config.Config, client remote, provider logging.LoggerProvider, out, errOut io.Writer) (*pipeline.Orchestrator, func(), error) {
	closeFn := func() {}

	resolver := paths.New(cfg.ContentRoot)
	writer, err := output.New(resolver.Root())
	if err != nil {
		return nil, closeFn, fmt.Errorf("initializing output writer: %w", err)
	}

	var recorder core.Recorder
	if cfg.LedgerPath != "" {
		led, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return nil, closeFn, err
		}
		recorder = led
		closeFn = func() { led.Close() }
	}

	downloader := fetch.New(
		fetch.WithTimeout(cfg.RequestTimeout),
		fetch.WithLogger(logging.Module(provider, "notionpipe.fetch")),
	)
	managerOpts := []asset.ManagerOption{asset.WithLogger(logging.Module(provider, "notionpipe.asset"))}
	if recorder != nil {
		managerOpts = append(managerOpts, asset.WithRecorder(recorder))
	}
	manager := asset.NewManager(downloader, resolver, cfg.AssetRoot, cfg.PublicBaseURL, managerOpts...)

	extractor := property.New(manager, logging.Module(provider, "notionpipe.property"))
	converter := body.New(client, logging.Module(provider, "notionpipe.body"))

	assembleOpts := []assemble.Option{
		assemble.WithLogger(logging.Module(provider, "notionpipe.assemble")),
		assemble.WithExports(exportRenderers(cfg)...),
	}
	if recorder != nil {
		assembleOpts = append(assembleOpts, assemble.WithRecorder(recorder))
	}
	assembler := assemble.New(resolver, converter, manager, writer, assembleOpts...)

	orchestrator := pipeline.New(client, mapper.New(extractor), assembler,
		pipeline.WithDelay(cfg.PageDelay),
		pipeline.WithContentRoot(resolver.Root(), writer),
		pipeline.WithProgress(printReport(out, errOut)),
		pipeline.WithLogger(logging.Module(provider, "notionpipe.pipeline")),
	)
	return orchestrator, closeFn, nil
}

func exportRenderers(cfg *config.Config) []core.Renderer {
	var renderers []core.Renderer
	for _, format := range cfg.ExportFormats {
		switch format {
		case "json":
			renderers = append(renderers, render.NewJSONRenderer())
		case "pdf":
			renderers = append(renderers, render.NewPDFRenderer())
		}
	}
	return renderers
}
