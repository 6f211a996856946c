package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontomerge/sparta"
)

// newVersionsCmd builds the dataset listing command.
func newVersionsCmd(root *rootOptions) *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List SPARTA datasets found in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(root)
			if err != nil {
				return err
			}

			dir := firstNonEmpty(dataDir, app.cfg.Data.Dir)
			datasets, err := sparta.DiscoverDatasets(dir)
			if err != nil {
				return err
			}
			if len(datasets) == 0 {
				fmt.Printf("No datasets in %s\n", dir)
				return nil
			}

			fmt.Printf("Datasets in %s:\n", dir)
			for i, ds := range datasets {
				marker := " "
				if i == len(datasets)-1 {
					marker = "*"
				}
				scheme, strictIDs := sparta.DefaultsForVersion(ds.Version)
				fmt.Printf("%s v%-10s %8s  scheme=%s strict=%v\n",
					marker, ds.Version, formatSize(ds.Size), scheme, strictIDs)
			}
			fmt.Println("\n* latest (used when no version is given)")
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding SPARTA datasets (overrides config)")

	return cmd
}

// formatSize renders a byte count in a compact human unit.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
