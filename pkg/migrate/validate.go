package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Catalog migrations run on postgres in production and sqlite in dev and
// tests, so dialect-specific constructs are rejected up front.
var nonPortableSQL = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`(?i)\bJSONB\b`), "JSONB"},
	{regexp.MustCompile(`(?i)\b(BIG)?SERIAL\b`), "SERIAL"},
	{regexp.MustCompile(`(?i)\bTIMESTAMPTZ\b`), "TIMESTAMPTZ"},
	{regexp.MustCompile(`(?i)\bgen_random_uuid\s*\(`), "gen_random_uuid()"},
	{regexp.MustCompile(`(?i)\bNOW\s*\(\s*\)`), "NOW() (use CURRENT_TIMESTAMP)"},
	{regexp.MustCompile(`::[a-zA-Z]`), ":: casts"},
	{regexp.MustCompile(`(?i)\bCREATE\s+(TYPE|EXTENSION)\b`), "CREATE TYPE/EXTENSION"},
}

// ValidateDir checks the migration files in dir.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return validateFS(os.DirFS(dir), ".")
}

// ValidateEmbedded checks the migrations compiled into the binary.
func ValidateEmbedded() error {
	return validateFS(embedded, embeddedDir)
}

// validateFS reports every problem found rather than stopping at the first.
func validateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var problems error
	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		match := migrationFileRe.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, dup := versions[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("duplicate migration version %s in %q and %q", match[1], prev, name))
		}
		versions[match[1]] = name

		body, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("read file %q: %w", name, err))
			continue
		}
		problems = multierr.Append(problems, checkMigrationBody(name, string(body)))
	}
	return problems
}

func checkMigrationBody(name, body string) error {
	var problems error
	up := strings.Index(body, "-- +goose Up")
	down := strings.Index(body, "-- +goose Down")
	switch {
	case up < 0:
		problems = multierr.Append(problems, fmt.Errorf("migration %q missing \"-- +goose Up\"", name))
	case down < 0:
		problems = multierr.Append(problems, fmt.Errorf("migration %q missing \"-- +goose Down\"", name))
	case down < up:
		problems = multierr.Append(problems, fmt.Errorf("migration %q declares Down before Up", name))
	}
	if strings.Count(body, "-- +goose StatementBegin") != strings.Count(body, "-- +goose StatementEnd") {
		problems = multierr.Append(problems, fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd", name))
	}

	sql := stripSQLComments(body)
	for _, rule := range nonPortableSQL {
		if rule.re.MatchString(sql) {
			problems = multierr.Append(problems, fmt.Errorf("migration %q uses non-portable %s", name, rule.hint))
		}
	}
	return problems
}

func stripSQLComments(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
