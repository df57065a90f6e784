package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
)

// countQueries maps each count stream to the event predicate that selects
// it. hit/container/adjacent are matched against the node name argument;
// "lost" means a ray terminally absorbed (as opposed to re-emitted) inside
// the node.
var countQueries = map[string]struct {
	kind   string
	column string
}{
	"reflected": {"REFLECT", "hit"},
	"entering":  {"TRANSMIT", "adjacent"},
	"escaping":  {"EXIT", "hit"},
	"killed":    {"KILL", "container"},
	"lost":      {"ABSORB", "container"},
}

func runCount(args []string) int {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	source := fs.String("source", "", "restrict to rays from this light source")
	nx := fs.Float64("nx", 0, "restrict to events whose normal x component matches (requires -nx set)")
	ny := fs.Float64("ny", 0, "restrict to events whose normal y component matches (requires -ny set)")
	nz := fs.Float64("nz", 0, "restrict to events whose normal z component matches (requires -nz set)")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}
	rest := fs.Args()
	// Options may also follow the three positional arguments.
	if len(rest) > 3 {
		if err := fs.Parse(rest[3:]); err != nil {
			return exitConfigError
		}
		rest = append(rest[:3:3], fs.Args()...)
	}
	hasNX := flagWasSet(fs, "nx")
	hasNY := flagWasSet(fs, "ny")
	hasNZ := flagWasSet(fs, "nz")

	if len(rest) != 3 {
		fmt.Fprintln(os.Stderr, "usage: pvtrace count {reflected|entering|escaping|killed|lost} <node> <db>")
		return exitConfigError
	}
	stream, node, dbPath := rest[0], rest[1], rest[2]
	query, ok := countQueries[stream]
	if !ok {
		fmt.Fprintf(os.Stderr, "pvtrace count: unknown stream %q\n", stream)
		return exitConfigError
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace count: %v\n", err)
		return exitRuntimeError
	}
	defer db.Close()

	sqlText := fmt.Sprintf(`
		SELECT COUNT(*) FROM event e
		JOIN ray r ON r.rowid = e.ray_id
		WHERE e.kind = ? AND e.%s = ?`, query.column)
	queryArgs := []any{query.kind, node}
	if *source != "" {
		sqlText += " AND r.source = ?"
		queryArgs = append(queryArgs, *source)
	}
	if hasNX {
		sqlText += " AND ABS(e.ni - ?) < 1e-6"
		queryArgs = append(queryArgs, *nx)
	}
	if hasNY {
		sqlText += " AND ABS(e.nj - ?) < 1e-6"
		queryArgs = append(queryArgs, *ny)
	}
	if hasNZ {
		sqlText += " AND ABS(e.nk - ?) < 1e-6"
		queryArgs = append(queryArgs, *nz)
	}

	var count int
	if err := db.QueryRow(sqlText, queryArgs...).Scan(&count); err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace count: %v\n", err)
		return exitRuntimeError
	}
	fmt.Println(count)
	return exitSuccess
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
