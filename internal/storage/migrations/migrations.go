// Package migrations embeds the ledger schema for each SQL backend.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed postgres/*.sql clickhouse/*.sql
var schemaFS embed.FS

// Dialect names a schema directory.
type Dialect string

const (
	Postgres   Dialect = "postgres"
	ClickHouse Dialect = "clickhouse"
)

// ErrUnsplittable is returned for ClickHouse files the statement splitter cannot handle.
var ErrUnsplittable = errors.New("migration not splittable")

// Migration is one schema file.
type Migration struct {
	Name string
	SQL  string
}

// Statements splits the file on ';'. Comment lines are dropped.
// Files must not carry ';' inside string literals, see checkSplittable.
func (m Migration) Statements() []string {
	var kept []string
	for _, line := range strings.Split(m.SQL, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Load returns the non-empty migrations for a dialect in lexical order.
func Load(d Dialect) ([]Migration, error) {
	entries, err := fs.ReadDir(schemaFS, string(d))
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", d, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(schemaFS, path.Join(string(d), name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		out = append(out, Migration{Name: name, SQL: string(data)})
	}
	return out, nil
}

// checkSplittable rejects a ';' inside a single-quoted literal.
// A doubled quote inside a literal is an escape.
func checkSplittable(sql string) error {
	quoted := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			if quoted && i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			quoted = !quoted
		case ';':
			if quoted {
				return fmt.Errorf("%w: ';' inside string literal at offset %d", ErrUnsplittable, i)
			}
		}
	}
	return nil
}
