package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLatestMigrationVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_create_popup_presentations.up.sql",
		"000001_create_popup_presentations.down.sql",
		"000012_add_index.up.sql",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "000099_dir"), 0o755)

	if got := findLatestMigrationVersion(dir); got != 12 {
		t.Errorf("latest = %d, want 12", got)
	}
	if got := findLatestMigrationVersion(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("latest of missing dir = %d, want 0", got)
	}
}

func TestShippedMigrationsArePaired(t *testing.T) {
	if got := findLatestMigrationVersion("../../migrations"); got != 1 {
		t.Errorf("latest shipped migration = %d, want 1", got)
	}
	for _, suffix := range []string{"up", "down"} {
		path := filepath.Join("../../migrations", "000001_create_popup_presentations."+suffix+".sql")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s migration: %v", suffix, err)
		}
	}
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	if err := RunMigrations("", "migrations"); err == nil {
		t.Error("expected error for empty database URL")
	}
}
