// Package localeimporter loads the country, region and city hierarchy
// that backs location lookups from CSV exports.
package localeimporter

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
	storagesqlite "github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
)

// Config holds configuration for the locale importer.
type Config struct {
	CountriesPath string
	SPRsPath      string
	CitiesPath    string
	DBPath        string
	DryRun        bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "gettogether.db"),
	}

	fs.StringVar(&cfg.CountriesPath, "countries", "", "countries CSV path (id,name,code)")
	fs.StringVar(&cfg.SPRsPath, "sprs", "", "states/provinces/regions CSV path (id,name,country_id)")
	fs.StringVar(&cfg.CitiesPath, "cities", "", "cities CSV path (id,name,spr_id,latitude,longitude)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "web database path")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.CountriesPath) == "" &&
		strings.TrimSpace(cfg.SPRsPath) == "" &&
		strings.TrimSpace(cfg.CitiesPath) == "" {
		return Config{}, errors.New("at least one of -countries, -sprs or -cities is required")
	}

	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	var store webstorage.Store
	if !cfg.DryRun {
		sqliteStore, err := storagesqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	if path := strings.TrimSpace(cfg.CountriesPath); path != "" {
		n, err := importFile(ctx, path, 3, func(record []string) error {
			if store == nil {
				return nil
			}
			return store.PutCountry(ctx, webstorage.Country{
				ID:   record[0],
				Name: record[1],
				Code: record[2],
			})
		})
		if err != nil {
			return fmt.Errorf("import countries: %w", err)
		}
		fmt.Fprintf(out, "countries: %d row(s)\n", n)
	}

	if path := strings.TrimSpace(cfg.SPRsPath); path != "" {
		n, err := importFile(ctx, path, 3, func(record []string) error {
			if store == nil {
				return nil
			}
			return store.PutSPR(ctx, webstorage.SPR{
				ID:        record[0],
				Name:      record[1],
				CountryID: record[2],
			})
		})
		if err != nil {
			return fmt.Errorf("import sprs: %w", err)
		}
		fmt.Fprintf(out, "sprs: %d row(s)\n", n)
	}

	if path := strings.TrimSpace(cfg.CitiesPath); path != "" {
		n, err := importFile(ctx, path, 5, func(record []string) error {
			latitude, err := strconv.ParseFloat(record[3], 64)
			if err != nil {
				return fmt.Errorf("latitude %q: %w", record[3], err)
			}
			longitude, err := strconv.ParseFloat(record[4], 64)
			if err != nil {
				return fmt.Errorf("longitude %q: %w", record[4], err)
			}
			if store == nil {
				return nil
			}
			return store.PutCity(ctx, webstorage.City{
				ID:        record[0],
				Name:      record[1],
				SPRID:     record[2],
				Latitude:  latitude,
				Longitude: longitude,
			})
		})
		if err != nil {
			return fmt.Errorf("import cities: %w", err)
		}
		fmt.Fprintf(out, "cities: %d row(s)\n", n)
	}

	return nil
}

// importFile streams a headered CSV and applies put to every data row.
func importFile(ctx context.Context, path string, fields int, put func([]string) error) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = fields

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("file is empty")
		}
		return 0, fmt.Errorf("read header: %w", err)
	}

	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("row %d: %w", rows+2, err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if record[0] == "" || record[1] == "" {
			return rows, fmt.Errorf("row %d: id and name are required", rows+2)
		}
		if err := put(record); err != nil {
			return rows, fmt.Errorf("row %d: %w", rows+2, err)
		}
		rows++
	}
}
