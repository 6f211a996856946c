package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontomerge/sparta"
)

// newUpdateCmd builds the one-shot merge command.
func newUpdateCmd(root *rootOptions) *cobra.Command {
	var (
		dataDir  string
		ontology string
		scheme   string
		strict   bool
		backup   bool
	)

	cmd := &cobra.Command{
		Use:   "update [version]",
		Short: "Merge a SPARTA dataset into the ontology file",
		Long: `Update translates one SPARTA STIX dataset into D3FEND triples and
merges them into the ontology Turtle file in place.

Without a version argument the newest dataset in the data directory is
used. URI scheme and strict-identifier defaults follow the dataset
version and can be overridden in the config file or with flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(root)
			if err != nil {
				return err
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
			backupValue := app.cfg.BackupEnabled()
			if cmd.Flags().Changed("backup") {
				backupValue = backup
			}

			opts := sparta.Options{
				DatasetPath:  dataset.Path,
				OntologyPath: firstNonEmpty(ontology, app.cfg.Ontology.Path),
				Scheme:       schemeValue,
				StrictIDs:    strictValue,
				Backup:       backupValue,
				Logger:       app.logger,
			}
			result, err := sparta.Merge(opts)
			if err != nil {
				return err
			}

			fmt.Printf("Merged SPARTA v%s into %s\n", dataset.Version, opts.OntologyPath)
			fmt.Printf("  Techniques:      %d\n", result.Techniques)
			fmt.Printf("  Threats:         %d\n", result.Threats)
			fmt.Printf("  Countermeasures: %d\n", result.Countermeasures)
			fmt.Printf("  Skipped:         %d\n", result.Skipped)
			fmt.Printf("  Triples added:   %d\n", result.TriplesAdded)
			fmt.Printf("  Graph total:     %d\n", result.GraphTriples)
			fmt.Printf("  Duration:        %s\n", result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding SPARTA datasets (overrides config)")
	cmd.Flags().StringVar(&ontology, "ontology", "", "Ontology Turtle file to merge into (overrides config)")
	cmd.Flags().StringVar(&scheme, "scheme", "", "URI scheme: prefixed or bare (overrides version default)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject identifiers with the reserved D3- prefix")
	cmd.Flags().BoolVar(&backup, "backup", true, "Write a .bak copy before rewriting the ontology")

	return cmd
}
