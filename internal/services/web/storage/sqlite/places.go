package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const maxLookupResults = 20

func clampLookupLimit(limit int) int64 {
	if limit <= 0 || limit > maxLookupResults {
		return maxLookupResults
	}
	return int64(limit)
}

// likePrefix escapes LIKE wildcards in a user-supplied prefix.
func likePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(strings.TrimSpace(prefix)) + "%"
}

// CreatePlace inserts a venue row.
func (s *Store) CreatePlace(ctx context.Context, place webstorage.Place) error {
	if err := s.ready(); err != nil {
		return err
	}
	place.ID = strings.TrimSpace(place.ID)
	if place.ID == "" {
		return fmt.Errorf("place id is required")
	}
	if strings.TrimSpace(place.Name) == "" {
		return fmt.Errorf("place name is required")
	}
	if place.TZ == "" {
		place.TZ = "UTC"
	}
	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO places (id, name, address, city_id, longitude, latitude, place_url, tz, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		place.ID, place.Name, place.Address, place.CityID,
		place.Longitude, place.Latitude, place.PlaceURL, place.TZ,
		timeToUnixMillis(place.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create place: %w", err)
	}
	return nil
}

// GetPlace loads a venue by id.
func (s *Store) GetPlace(ctx context.Context, placeID string) (webstorage.Place, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Place{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, address, city_id, longitude, latitude, place_url, tz, created_at
		 FROM places WHERE id = ?`,
		strings.TrimSpace(placeID),
	)
	place, err := scanPlace(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Place{}, false, nil
		}
		return webstorage.Place{}, false, fmt.Errorf("get place: %w", err)
	}
	return place, true, nil
}

func scanPlace(scanner rowScanner) (webstorage.Place, error) {
	var place webstorage.Place
	var createdAt int64
	err := scanner.Scan(
		&place.ID,
		&place.Name,
		&place.Address,
		&place.CityID,
		&place.Longitude,
		&place.Latitude,
		&place.PlaceURL,
		&place.TZ,
		&createdAt,
	)
	if err != nil {
		return webstorage.Place{}, err
	}
	place.CreatedAt = unixMillisToTime(createdAt)
	return place, nil
}

func (s *Store) collectPlaces(rows *sql.Rows) ([]webstorage.Place, error) {
	defer func() { _ = rows.Close() }()
	places := make([]webstorage.Place, 0)
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return places, nil
}

// ListPlaces returns all venues ordered by name.
func (s *Store) ListPlaces(ctx context.Context) ([]webstorage.Place, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, address, city_id, longitude, latitude, place_url, tz, created_at
		 FROM places ORDER BY name COLLATE NOCASE`,
	)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return s.collectPlaces(rows)
}

// SearchPlaces returns venues whose name starts with the given prefix.
func (s *Store) SearchPlaces(ctx context.Context, prefix string, limit int) ([]webstorage.Place, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, address, city_id, longitude, latitude, place_url, tz, created_at
		 FROM places
		 WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
		 ORDER BY name COLLATE NOCASE LIMIT ?`,
		likePrefix(prefix), clampLookupLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	return s.collectPlaces(rows)
}

// PutCountry upserts a country row.
func (s *Store) PutCountry(ctx context.Context, country webstorage.Country) error {
	if err := s.ready(); err != nil {
		return err
	}
	country.ID = strings.TrimSpace(country.ID)
	if country.ID == "" {
		return fmt.Errorf("country id is required")
	}
	if strings.TrimSpace(country.Name) == "" {
		return fmt.Errorf("country name is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO countries (id, name, code) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, code = excluded.code`,
		country.ID, country.Name, country.Code,
	)
	if err != nil {
		return fmt.Errorf("put country: %w", err)
	}
	return nil
}

// PutSPR upserts a state, province or region row.
func (s *Store) PutSPR(ctx context.Context, spr webstorage.SPR) error {
	if err := s.ready(); err != nil {
		return err
	}
	spr.ID = strings.TrimSpace(spr.ID)
	if spr.ID == "" {
		return fmt.Errorf("spr id is required")
	}
	if strings.TrimSpace(spr.Name) == "" {
		return fmt.Errorf("spr name is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sprs (id, name, country_id) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, country_id = excluded.country_id`,
		spr.ID, spr.Name, spr.CountryID,
	)
	if err != nil {
		return fmt.Errorf("put spr: %w", err)
	}
	return nil
}

// PutCity upserts a city row.
func (s *Store) PutCity(ctx context.Context, city webstorage.City) error {
	if err := s.ready(); err != nil {
		return err
	}
	city.ID = strings.TrimSpace(city.ID)
	if city.ID == "" {
		return fmt.Errorf("city id is required")
	}
	if strings.TrimSpace(city.Name) == "" {
		return fmt.Errorf("city name is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cities (id, name, spr_id, latitude, longitude) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   spr_id = excluded.spr_id,
		   latitude = excluded.latitude,
		   longitude = excluded.longitude`,
		city.ID, city.Name, city.SPRID, city.Latitude, city.Longitude,
	)
	if err != nil {
		return fmt.Errorf("put city: %w", err)
	}
	return nil
}

// GetCity loads a city by id.
func (s *Store) GetCity(ctx context.Context, cityID string) (webstorage.City, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.City{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, spr_id, latitude, longitude FROM cities WHERE id = ?`,
		strings.TrimSpace(cityID),
	)
	var city webstorage.City
	err := row.Scan(&city.ID, &city.Name, &city.SPRID, &city.Latitude, &city.Longitude)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.City{}, false, nil
		}
		return webstorage.City{}, false, fmt.Errorf("get city: %w", err)
	}
	return city, true, nil
}

// SearchCountries returns countries whose name starts with the given prefix.
func (s *Store) SearchCountries(ctx context.Context, prefix string, limit int) ([]webstorage.Country, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, code FROM countries
		 WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
		 ORDER BY name COLLATE NOCASE LIMIT ?`,
		likePrefix(prefix), clampLookupLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search countries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	countries := make([]webstorage.Country, 0)
	for rows.Next() {
		var country webstorage.Country
		if err := rows.Scan(&country.ID, &country.Name, &country.Code); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	return countries, nil
}

// SearchSPRs returns regions whose name starts with the given prefix.
func (s *Store) SearchSPRs(ctx context.Context, prefix string, limit int) ([]webstorage.SPR, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, country_id FROM sprs
		 WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
		 ORDER BY name COLLATE NOCASE LIMIT ?`,
		likePrefix(prefix), clampLookupLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search sprs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sprs := make([]webstorage.SPR, 0)
	for rows.Next() {
		var spr webstorage.SPR
		if err := rows.Scan(&spr.ID, &spr.Name, &spr.CountryID); err != nil {
			return nil, fmt.Errorf("scan spr: %w", err)
		}
		sprs = append(sprs, spr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sprs: %w", err)
	}
	return sprs, nil
}

// SearchCities returns cities whose name starts with the given prefix.
func (s *Store) SearchCities(ctx context.Context, prefix string, limit int) ([]webstorage.City, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, spr_id, latitude, longitude FROM cities
		 WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
		 ORDER BY name COLLATE NOCASE LIMIT ?`,
		likePrefix(prefix), clampLookupLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search cities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cities := make([]webstorage.City, 0)
	for rows.Next() {
		var city webstorage.City
		if err := rows.Scan(&city.ID, &city.Name, &city.SPRID, &city.Latitude, &city.Longitude); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}
	return cities, nil
}
