package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/sparta"
	"github.com/c360studio/ontomerge/stix"
)

// newExportCmd builds the translate-only command. Export renders the
// dataset as triples without touching the ontology file.
func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		dataDir   string
		formatStr string
		output    string
		scheme    string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "export [version]",
		Short: "Translate a SPARTA dataset to RDF without merging",
		Long: `Export translates one SPARTA STIX dataset into D3FEND triples and
writes them to stdout or a file. The ontology is never read or
modified, so cross-references to existing ontology nodes resolve by URL
convention alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(root)
			if err != nil {
				return err
			}

			var format rdf.Format
			switch strings.ToLower(formatStr) {
			case "turtle", "ttl":
				format = rdf.FormatTurtle
			case "ntriples", "nt":
				format = rdf.FormatNTriples
			default:
				return fmt.Errorf("unsupported format: %s (supported: turtle, ntriples)", formatStr)
			}

			versionArg := ""
			if len(args) == 1 {
				versionArg = args[0]
			}
			dataset, err := resolveDataset(firstNonEmpty(dataDir, app.cfg.Data.Dir), versionArg)
			if err != nil {
				return err
			}
			schemeValue, strictValue, err := resolveTranslation(app.cfg, cmd, dataset.Version, scheme, strict)
			if err != nil {
				return err
			}

			store, err := stix.LoadFile(dataset.Path)
			if err != nil {
				return err
			}
			graph, result, err := sparta.Translate(store, nil, sparta.Options{
				Scheme:    schemeValue,
				StrictIDs: strictValue,
				Logger:    app.logger,
			})
			if err != nil {
				return err
			}

			data, err := graph.Serialize(format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				fmt.Print(data)
			} else {
				if err := os.WriteFile(output, []byte(data), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				fmt.Printf("Exported %d triples from SPARTA v%s to %s\n", graph.Len(), dataset.Version, output)
			}

			app.logger.Debug("export complete",
				"techniques", result.Techniques,
				"threats", result.Threats,
				"countermeasures", result.Countermeasures,
				"skipped", result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding SPARTA datasets (overrides config)")
	cmd.Flags().StringVarP(&formatStr, "format", "f", "turtle", "Output format: turtle, ntriples")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&scheme, "scheme", "", "URI scheme: prefixed or bare (overrides version default)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject identifiers with the reserved D3- prefix")

	return cmd
}
