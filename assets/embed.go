// Package assets embeds the SQL migrations shipped with the server.
package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var FS embed.FS

// Migration is one embedded *.sql file.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded migrations in lexical order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			continue
		}
		out = append(out, Migration{Name: name, SQL: text})
	}
	return out, nil
}
