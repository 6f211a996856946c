package sparta

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/ontomerge/rdf"
	"github.com/c360studio/ontomerge/stix"
	"github.com/c360studio/ontomerge/vocabulary/d3f"
)

// Options configures a merge run.
type Options struct {
	// DatasetPath is the STIX bundle to translate.
	DatasetPath string

	// OntologyPath is the Turtle file the translation merges into.
	OntologyPath string

	// Scheme selects how record URIs are minted.
	Scheme Scheme

	// StrictIDs enables the reserved-prefix identifier filter.
	StrictIDs bool

	// Backup writes OntologyPath.bak before rewriting the ontology.
	Backup bool

	Logger  *slog.Logger
	Metrics *Metrics
}

// Result summarizes one run.
type Result struct {
	RunID           string
	Techniques      int
	Threats         int
	Countermeasures int
	Skipped         int
	TriplesAdded    int
	GraphTriples    int
	Duration        time.Duration
}

// Translate converts every selected record in the store into a fresh
// graph. The ontology graph may be nil when translating without a merge
// target. Records without a sparta identifier are skipped and counted;
// any other translation error aborts.
func Translate(store *stix.MemoryStore, ontology *rdf.Graph, opts Options) (*rdf.Graph, *Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	uris, err := NewURIMapper(opts.Scheme)
	if err != nil {
		return nil, nil, err
	}
	translator := NewTranslator(store, uris, NewGraphResolver(ontology, logger), TranslatorOptions{
		StrictIDs: opts.StrictIDs,
		Logger:    logger,
		Metrics:   opts.Metrics,
	})

	g := rdf.NewGraph()
	g.Bind("d3f", d3f.Namespace)
	result := &Result{}

	selections := []struct {
		kind      Kind
		filters   []stix.Filter
		translate func(*rdf.Graph, *stix.Object) error
		count     *int
	}{
		{KindTechnique, TechniqueFilters(), translator.TranslateTechnique, &result.Techniques},
		{KindThreat, ThreatFilters(), translator.TranslateThreat, &result.Threats},
		{KindCountermeasure, CountermeasureFilters(), translator.TranslateCountermeasure, &result.Countermeasures},
	}
	for _, sel := range selections {
		for _, record := range store.Query(sel.filters) {
			if err := sel.translate(g, record); err != nil {
				if errors.Is(err, ErrNoIdentifier) {
					logger.Warn("skipping record without sparta identifier",
						slog.String("kind", string(sel.kind)),
						slog.String("record", record.ID))
					opts.Metrics.RecordSkipped()
					result.Skipped++
					continue
				}
				return nil, nil, err
			}
			*sel.count++
		}
	}
	return g, result, nil
}

// Merge runs the full pipeline: parse the ontology, load the dataset,
// translate, union, and rewrite the ontology file in place. Fatal errors
// abort before anything is written.
func Merge(opts Options) (result *Result, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		opts.Metrics.RecordRun(status, time.Since(start))
	}()

	runID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("run_id", runID))
	opts.Logger = logger

	logger.Info("starting merge",
		slog.String("dataset", opts.DatasetPath),
		slog.String("ontology", opts.OntologyPath),
		slog.String("scheme", string(opts.Scheme)),
		slog.Bool("strict_ids", opts.StrictIDs))

	ontology, err := rdf.ParseFile(opts.OntologyPath)
	if err != nil {
		return nil, err
	}
	store, err := stix.LoadFile(opts.DatasetPath)
	if err != nil {
		return nil, err
	}

	fresh, result, err := Translate(store, ontology, opts)
	if err != nil {
		return nil, err
	}

	before := ontology.Len()
	ontology.Union(fresh)
	result.RunID = runID
	result.TriplesAdded = ontology.Len() - before
	result.GraphTriples = ontology.Len()

	if opts.Backup {
		if err := backupFile(opts.OntologyPath); err != nil {
			return nil, err
		}
	}
	if err := ontology.WriteFile(opts.OntologyPath, rdf.FormatTurtle); err != nil {
		return nil, err
	}

	opts.Metrics.RecordMergeResult(result.TriplesAdded, result.GraphTriples)
	result.Duration = time.Since(start)
	logger.Info("merge complete",
		slog.Int("techniques", result.Techniques),
		slog.Int("threats", result.Threats),
		slog.Int("countermeasures", result.Countermeasures),
		slog.Int("skipped", result.Skipped),
		slog.Int("triples_added", result.TriplesAdded),
		slog.Int("graph_triples", result.GraphTriples),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// backupFile copies the ontology aside before the in-place rewrite.
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s for backup: %w", path, err)
	}
	backup := path + ".bak"
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("writing backup %s: %w", backup, err)
	}
	return nil
}
