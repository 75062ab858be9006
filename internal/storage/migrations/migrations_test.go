package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	input := `
-- leading comment
CREATE TABLE a (
    x String
) ENGINE = MergeTree()
ORDER BY x;

-- another comment
CREATE TABLE b (y UInt64) ENGINE = MergeTree() ORDER BY y;
`
	stmts := splitStatements(input)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2: %q", len(stmts), stmts)
	}
	if !strings.HasPrefix(stmts[0], "CREATE TABLE a") {
		t.Errorf("first statement = %q", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], "CREATE TABLE b") {
		t.Errorf("second statement = %q", stmts[1])
	}
	for i, stmt := range stmts {
		if strings.Contains(stmt, "--") {
			t.Errorf("statement %d retains a comment: %q", i, stmt)
		}
		if strings.Contains(stmt, ";") {
			t.Errorf("statement %d retains a semicolon: %q", i, stmt)
		}
	}
}

func TestSplitStatements_Empty(t *testing.T) {
	if stmts := splitStatements("  \n-- only a comment\n"); len(stmts) != 0 {
		t.Errorf("got %d statements from comment-only input", len(stmts))
	}
}

func TestEmbeddedMigrations_Present(t *testing.T) {
	pg, err := fs.Glob(PostgresFS, "postgres/*.sql")
	if err != nil {
		t.Fatalf("glob postgres migrations: %v", err)
	}
	if len(pg) == 0 {
		t.Error("no embedded postgres migrations")
	}

	ch, err := fs.Glob(ClickhouseFS, "clickhouse/*.sql")
	if err != nil {
		t.Fatalf("glob clickhouse migrations: %v", err)
	}
	if len(ch) == 0 {
		t.Error("no embedded clickhouse migrations")
	}

	// Every embedded ClickHouse file must expand to at least one statement.
	for _, file := range ch {
		data, err := fs.ReadFile(ClickhouseFS, file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		if len(splitStatements(string(data))) == 0 {
			t.Errorf("migration %s yields no statements", file)
		}
	}
}
