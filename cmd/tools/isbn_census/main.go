// Command isbn_census runs every isbn column value of a bibliography table
// through the parser and prints how many rows fall into each outcome.
package main

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/lib/pq"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

type row struct {
	isbn  string
	title string
}

// Census counts parse outcomes and keeps the first few failures per kind.
type Census struct {
	Total    int
	Kinds    map[isbn.Kind]int
	Agencies map[string]int
	Samples  map[isbn.Kind][]row
}

const samplesPerKind = 3

func newCensus() *Census {
	return &Census{
		Kinds:    make(map[isbn.Kind]int),
		Agencies: make(map[string]int),
		Samples:  make(map[isbn.Kind][]row),
	}
}

func (c *Census) Add(p *isbn.Parser, r row) {
	c.Total++
	id, err := p.Parse(r.isbn)
	if err != nil {
		k := isbn.KindOf(err)
		c.Kinds[k]++
		if len(c.Samples[k]) < samplesPerKind {
			c.Samples[k] = append(c.Samples[k], r)
		}
		return
	}
	c.Kinds["ok"]++
	c.Agencies[id.AgencyIn(p.Table())]++
}

func (c *Census) Print(w io.Writer) {
	fmt.Fprintf(w, "=== ISBN Census (%d rows) ===\n", c.Total)
	for _, k := range sortedKeys(c.Kinds) {
		n := c.Kinds[isbn.Kind(k)]
		fmt.Fprintf(w, "%-24s %6d  %5.1f%%\n", k, n, 100*float64(n)/float64(max(c.Total, 1)))
		for _, s := range c.Samples[isbn.Kind(k)] {
			fmt.Fprintf(w, "    ISBN: '%s' | Title: '%s'\n", s.isbn, s.title)
		}
	}
	if len(c.Agencies) == 0 {
		return
	}
	fmt.Fprintln(w, "\n--- By agency ---")
	for _, a := range sortedKeys(c.Agencies) {
		fmt.Fprintf(w, "%-40s %6d\n", a, c.Agencies[a])
	}
}

func sortedKeys[K ~string](m map[K]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fmt.Println("Error: DB_DSN is not set")
		return
	}
	table := os.Getenv("CENSUS_TABLE")
	if table == "" {
		table = "isbn_records"
	}
	limit := 10000
	if v, err := strconv.Atoi(os.Getenv("CENSUS_LIMIT")); err == nil && v > 0 {
		limit = v
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	isbnColumn := "isbn"
	if table == "isbn_records" {
		isbnColumn = "isbn13"
	}
	query := fmt.Sprintf("SELECT COALESCE(%s, ''), COALESCE(title, '') FROM %s LIMIT $1",
		pq.QuoteIdentifier(isbnColumn), pq.QuoteIdentifier(table))
	rows, err := db.Query(query, limit)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	p := isbn.NewParser(nil, isbn.FormBoth)
	c := newCensus()
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.isbn, &r.title); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		c.Add(p, r)
	}
	if err := rows.Err(); err != nil {
		log.Fatal(err)
	}

	if c.Total == 0 {
		fmt.Printf("Warning: Table %s is EMPTY.\n", table)
		return
	}
	c.Print(os.Stdout)
}
