package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/replay"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to audit DB")
	last := flag.Int("last", 10, "number of most recent predictions to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	description := flag.String("description", "", "fixture description (default: derived from --db)")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/audit.db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath, *description); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last int, outPath, description string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	recs, err := st.ListPredictions(last)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no predictions found in %s", dbPath)
	}

	remote := 0
	for _, r := range recs {
		if r.Source == "remote" {
			remote++
		}
	}
	if remote > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d rows used the remote estimator and will drift on heuristic replay\n", remote, len(recs))
	}

	if description == "" {
		description = fmt.Sprintf("exported from %s (last %d predictions)", dbPath, len(recs))
	}
	f := replay.FixtureFromRecords(description, recs)
	if err := replay.WriteFixture(f, outPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %d scenarios to %s\n", len(f.Scenarios), outPath)
	return nil
}

// #endregion export
