// Package cmd: status command.
// Compares the ledger with the documents on disk.
package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/notionpipe/config"
	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/ledger"
	"github.com/gaurav-prasanna/notionpipe/core/render"
)

// Document states reported by status.
const (
	stateOK       = "ok"
	stateMissing  = "missing"
	stateModified = "modified"
	stateInvalid  = "invalid"
)

var flagLedger string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check written documents against the sync ledger",
	Long: `Status lists every document recorded by previous syncs and reports whether
the file is still on disk, parses, and matches the recorded content hash.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&flagLedger, "ledger", "", "Ledger file (default from LEDGER_PATH)")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	path := flagLedger
	if path == "" {
		cfg, err := config.Load(flagEnvFile, flagConfig)
		if err != nil {
			return err
		}
		path = cfg.LedgerPath
	}
	if path == "" {
		return errors.New("no ledger configured (set LEDGER_PATH or --ledger)")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	led, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer led.Close()

	docs, err := led.Documents()
	if err != nil {
		return err
	}
	assets, err := led.Assets()
	if err != nil {
		return err
	}

	problems := writeStatus(cmd.OutOrStdout(), docs)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d documents, %d assets, %d need attention\n", len(docs), len(assets), problems)
	return nil
}

// writeStatus prints one row per document and returns the number of rows
// that are not ok.
func writeStatus(out io.Writer, docs []core.DocumentRecord) int {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATE\tSLUG\tLANG\tPATH\tSYNCED")
	problems := 0
	for _, rec := range docs {
		state := documentState(rec)
		label := okColor(state)
		if state != stateOK {
			problems++
			label = errColor(state)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", label, rec.Slug, rec.Language, rec.Path, rec.SyncedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
	return problems
}

// documentState checks the file recorded for rec.
func documentState(rec core.DocumentRecord) string {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return stateMissing
	}
	header, _, err := render.ParseDocument(data)
	if err != nil || header.String(core.HeaderID) != rec.ID {
		return stateInvalid
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != rec.SHA256 {
		return stateModified
	}
	return stateOK
}
