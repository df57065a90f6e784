package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// spectrumStreams maps a stream name to the event kind whose ray wavelength
// the histogram is built from.
var spectrumStreams = map[string]string{
	"emitted":   "EMIT",
	"absorbed":  "ABSORB",
	"entering":  "TRANSMIT",
	"escaping":  "EXIT",
	"generated": "GENERATE",
}

func runSpectrum(args []string) int {
	fs := flag.NewFlagSet("spectrum", flag.ContinueOnError)
	source := fs.String("source", "", "restrict to rays from this light source")
	bins := fs.Int("bins", 20, "number of histogram bins")
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
	if len(rest) != 3 {
		fmt.Fprintln(os.Stderr, "usage: pvtrace spectrum <stream> <node> <db>")
		return exitConfigError
	}
	stream, node, dbPath := rest[0], rest[1], rest[2]
	kind, ok := spectrumStreams[stream]
	if !ok {
		fmt.Fprintf(os.Stderr, "pvtrace spectrum: unknown stream %q\n", stream)
		return exitConfigError
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace spectrum: %v\n", err)
		return exitRuntimeError
	}
	defer db.Close()

	sqlText := `
		SELECT r.wavelength FROM event e
		JOIN ray r ON r.rowid = e.ray_id
		WHERE e.kind = ? AND (e.hit = ? OR e.container = ?)`
	queryArgs := []any{kind, node, node}
	if *source != "" {
		sqlText += " AND r.source = ?"
		queryArgs = append(queryArgs, *source)
	}

	rows, err := db.Query(sqlText, queryArgs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace spectrum: %v\n", err)
		return exitRuntimeError
	}
	defer rows.Close()

	var wavelengths []float64
	for rows.Next() {
		var w float64
		if err := rows.Scan(&w); err != nil {
			fmt.Fprintf(os.Stderr, "pvtrace spectrum: %v\n", err)
			return exitRuntimeError
		}
		wavelengths = append(wavelengths, w)
	}
	if len(wavelengths) == 0 {
		fmt.Println("no matching events")
		return exitSuccess
	}
	sort.Float64s(wavelengths)

	lo, hi := wavelengths[0], wavelengths[len(wavelengths)-1]
	dividers := make([]float64, *bins+1)
	if hi == lo {
		hi = lo + 1
	}
	for i := range dividers {
		dividers[i] = lo + (hi-lo)*float64(i)/float64(*bins)
	}
	counts := stat.Histogram(nil, dividers, wavelengths, nil)

	for i, c := range counts {
		fmt.Printf("[%.1f, %.1f) nm: %d\n", dividers[i], dividers[i+1], int(c))
	}
	fmt.Printf("n=%d p50=%.1f p85=%.1f p98=%.1f\n",
		len(wavelengths),
		stat.Quantile(0.5, stat.Empirical, wavelengths, nil),
		stat.Quantile(0.85, stat.Empirical, wavelengths, nil),
		stat.Quantile(0.98, stat.Empirical, wavelengths, nil))
	return exitSuccess
}
