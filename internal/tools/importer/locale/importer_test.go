package localeimporter

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseConfigRequiresAnInput(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected input validation error")
	}
}

func TestRunImportsLocaleHierarchy(t *testing.T) {
	dir := t.TempDir()
	countries := writeFile(t, dir, "countries.csv", "id,name,code\nco-1,Portugal,PT\n")
	sprs := writeFile(t, dir, "sprs.csv", "id,name,country_id\nspr-1,Lisboa,co-1\n")
	cities := writeFile(t, dir, "cities.csv", "id,name,spr_id,latitude,longitude\ncity-1,Lisbon,spr-1,38.7223,-9.1393\n")
	dbPath := filepath.Join(dir, "web.db")

	var out bytes.Buffer
	err := Run(context.Background(), Config{
		CountriesPath: countries,
		SPRsPath:      sprs,
		CitiesPath:    cities,
		DBPath:        dbPath,
	}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"countries: 1", "sprs: 1", "cities: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output %q lacks %q", out.String(), want)
		}
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	cities2, err := store.SearchCities(context.Background(), "lis", 10)
	if err != nil {
		t.Fatalf("search cities: %v", err)
	}
	if len(cities2) != 1 || cities2[0].ID != "city-1" {
		t.Fatalf("cities = %+v, want the imported Lisbon row", cities2)
	}
	if cities2[0].Latitude != 38.7223 {
		t.Fatalf("latitude = %v, want 38.7223", cities2[0].Latitude)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	countries := writeFile(t, dir, "countries.csv", "id,name,code\nco-1,Portugal,PT\n")
	dbPath := filepath.Join(dir, "web.db")

	err := Run(context.Background(), Config{
		CountriesPath: countries,
		DBPath:        dbPath,
		DryRun:        true,
	}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the database")
	}
}

func TestRunRejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	cities := writeFile(t, dir, "cities.csv", "id,name,spr_id,latitude,longitude\ncity-1,Lisbon,spr-1,not-a-number,-9.1\n")

	err := Run(context.Background(), Config{
		CitiesPath: cities,
		DBPath:     filepath.Join(dir, "web.db"),
		DryRun:     true,
	}, nil)
	if err == nil {
		t.Fatal("expected latitude parse error")
	}
}
