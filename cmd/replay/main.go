package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/replay"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to audit DB (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	last := flag.Int("last", 50, "number of most recent predictions to replay (DB mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/audit.db [--last N]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *last)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region modes

// runDBMode replays recorded predictions with the heuristic estimator. Rows
// whose signal came from the remote estimator are expected to drift.
func runDBMode(dbPath string, last int) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	recs, err := st.ListPredictions(last)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list predictions: %v\n", err)
		return 2
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no predictions found in audit db")
		return 2
	}

	sources := make(map[string]string, len(recs))
	for _, r := range recs {
		sources[r.ID] = r.Source
	}

	f := replay.FixtureFromRecords("db:"+dbPath, recs)
	results := replay.Replay(context.Background(), f.ToScenarios(), replay.DefaultReplayConfig())
	return printComparison(results, f.ToExpected(), sources)
}

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results := replay.Replay(context.Background(), f.ToScenarios(), f.Config.ToReplayConfig())
	return printComparison(results, f.ToExpected(), nil)
}

// #endregion modes

// #region output

// printComparison outputs a comparison table and returns the exit code.
// sources can be nil (fixture mode).
func printComparison(results []replay.ReplayResult, expected []replay.Expected, sources map[string]string) int {
	drifts := replay.Compare(results, expected)
	byID := make(map[string][]string)
	for _, d := range drifts {
		byID[d.ID] = append(byID[d.ID], fmt.Sprintf("%s %s->%s", d.Field, d.Want, d.Got))
	}

	fmt.Printf("%-24s| %-10s| %-17s| %-10s| %s\n", "Scenario", "Eval", "Mode", "Source", "Match")
	fmt.Printf("%-24s+%-11s+%-18s+%-11s+%s\n",
		"------------------------", "-----------", "------------------", "-----------", "------")

	for _, r := range results {
		source := "heuristic"
		if src, ok := sources[r.ID]; ok {
			source = src
		}
		match := "OK"
		if diffs := byID[r.ID]; len(diffs) > 0 {
			match = "DIFF " + strings.Join(diffs, ", ")
		}
		fmt.Printf("%-24s| %-10s| %-17s| %-10s| %s\n",
			truncate(r.ID, 24), r.Action, r.Outcome.Trace.Fusion.Mode, source, match)
		if r.Action != "pass" && r.Reason != "" {
			fmt.Printf("%-24s  %s\n", "", r.Reason)
		}
	}

	s := replay.Summarize(results, drifts)
	fmt.Printf("\nSummary: %d total, %d pass, %d eval_fail, %d error, %d drifted (%d fields)\n",
		s.Total, s.Passed, s.EvalFails, s.Errors, s.Drifted, s.DriftFields)

	if s.Drifted > 0 || s.EvalFails > 0 || s.Errors > 0 {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// #endregion output
