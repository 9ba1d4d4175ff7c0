package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"specials-server/geo"
	"specials-server/migrations"
	"specials-server/models/venue"
)

// ErrVenueNotFound is returned when no venue is stored under the requested ID.
var ErrVenueNotFound = venue.ErrNotFound

// SQLiteVenueDAO stores venues in SQLite. Radius queries prune with a lat/lon
// bounding box in SQL and compute haversine distances in Go.
type SQLiteVenueDAO struct {
	db *sql.DB
}

// Open opens a SQLite database at dsn and runs pending migrations.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func NewSQLiteVenueDAO(db *sql.DB) *SQLiteVenueDAO {
	return &SQLiteVenueDAO{db: db}
}

// UpsertVenue replaces the venue row together with its specials and schedules.
func (dao *SQLiteVenueDAO) UpsertVenue(ctx context.Context, v venue.Venue) error {
	if v.ID == "" {
		return errors.New("[SQLiteVenueDAO] venue ID is required")
	}

	tx, err := dao.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO venues (id, name, description, address, lat, lon, timezone)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, description = excluded.description, address = excluded.address,
		   lat = excluded.lat, lon = excluded.lon, timezone = excluded.timezone`,
		v.ID, v.Name, v.Description, v.Address, v.Location.Lat, v.Location.Lon, v.Timezone,
	); err != nil {
		return fmt.Errorf("upsert venue %s: %w", v.ID, err)
	}

	if err := deleteChildren(ctx, tx, v.ID); err != nil {
		return err
	}

	for i, s := range v.Specials {
		var endTime, expiration *string
		if s.EndTime != nil {
			e := s.EndTime.String()
			endTime = &e
		}
		if s.ExpirationDate != nil {
			e := s.ExpirationDate.String()
			expiration = &e
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO specials (venue_id, position, id, content, type, start_date, start_time,
			                       end_time, expiration_date, is_recurring, cron_schedule)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, i, s.ID, s.Content, s.Type, dateColumn(s.StartDate), s.StartTime.String(),
			endTime, expiration, boolToInt(s.IsRecurring), s.CronSchedule,
		); err != nil {
			return fmt.Errorf("insert special %d for venue %s: %w", i, v.ID, err)
		}
	}

	for _, sched := range v.OperatingSchedules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO operating_schedules (venue_id, day_of_week, open_time, close_time)
			 VALUES (?, ?, ?, ?)`,
			v.ID, int(sched.DayOfWeek), sched.OpenTime.String(), sched.CloseTime.String(),
		); err != nil {
			return fmt.Errorf("insert operating schedule for venue %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit venue %s: %w", v.ID, err)
	}
	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, venueID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM specials WHERE venue_id = ?`, venueID); err != nil {
		return fmt.Errorf("delete specials for venue %s: %w", venueID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM operating_schedules WHERE venue_id = ?`, venueID); err != nil {
		return fmt.Errorf("delete operating schedules for venue %s: %w", venueID, err)
	}
	return nil
}

// DeleteVenue removes a venue and everything it owns.
func (dao *SQLiteVenueDAO) DeleteVenue(ctx context.Context, id string) error {
	tx, err := dao.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteChildren(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete venue %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete venue %s: %w", id, err)
	}
	log.Printf("[SQLiteVenueDAO] Deleted venue %s", id)
	return nil
}

// GetVenue loads a single venue by ID.
func (dao *SQLiteVenueDAO) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	row := dao.db.QueryRowContext(ctx,
		`SELECT id, name, description, address, lat, lon, timezone FROM venues WHERE id = ?`, id)

	var v venue.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Description, &v.Address, &v.Location.Lat, &v.Location.Lon, &v.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan venue %s: %w", id, err)
	}

	venues := []venue.Venue{v}
	if err := dao.attachChildren(ctx, venues); err != nil {
		return nil, err
	}
	return &venues[0], nil
}

// FindWithinRadius returns venues within radiusMeters of point, nearest first.
func (dao *SQLiteVenueDAO) FindWithinRadius(ctx context.Context, point geo.Point, radiusMeters float64) ([]venue.VenueWithDistance, error) {
	lo, hi := geo.BoundingBox(point, radiusMeters)

	query := `SELECT id, name, description, address, lat, lon, timezone FROM venues WHERE lat BETWEEN ? AND ?`
	args := []any{lo.Lat, hi.Lat}
	// A box that wraps the antimeridian falls back to the latitude band alone.
	if lo.Lon >= -180 && hi.Lon <= 180 {
		query += ` AND lon BETWEEN ? AND ?`
		args = append(args, lo.Lon, hi.Lon)
	}

	rows, err := dao.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query venues in box: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []venue.VenueWithDistance
	for rows.Next() {
		var v venue.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Address, &v.Location.Lat, &v.Location.Lon, &v.Timezone); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		d := geo.DistanceMeters(point, v.Location)
		if d > radiusMeters {
			continue
		}
		candidates = append(candidates, venue.VenueWithDistance{Venue: v, DistanceMeters: d})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceMeters != candidates[j].DistanceMeters {
			return candidates[i].DistanceMeters < candidates[j].DistanceMeters
		}
		return candidates[i].Venue.ID < candidates[j].Venue.ID
	})

	venues := make([]venue.Venue, len(candidates))
	for i := range candidates {
		venues[i] = candidates[i].Venue
	}
	if err := dao.attachChildren(ctx, venues); err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].Venue = venues[i]
	}
	return candidates, nil
}

// ListAllVenueIDs returns every stored venue ID in ascending order.
func (dao *SQLiteVenueDAO) ListAllVenueIDs(ctx context.Context) ([]string, error) {
	rows, err := dao.db.QueryContext(ctx, `SELECT id FROM venues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query venue ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan venue id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// attachChildren loads specials and operating schedules for the given venues in place.
func (dao *SQLiteVenueDAO) attachChildren(ctx context.Context, venues []venue.Venue) error {
	index := make(map[string]int, len(venues))
	ids := make([]any, len(venues))
	for i, v := range venues {
		index[v.ID] = i
		ids[i] = v.ID
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := dao.db.QueryContext(ctx,
		`SELECT venue_id, id, content, type, start_date, start_time, end_time, expiration_date,
		        is_recurring, cron_schedule
		 FROM specials WHERE venue_id IN (`+placeholders+`) ORDER BY venue_id, position`, ids...)
	if err != nil {
		return fmt.Errorf("query specials: %w", err)
	}
	for rows.Next() {
		venueID, s, err := scanSpecial(rows)
		if err != nil {
			_ = rows.Close()
			return err
		}
		i := index[venueID]
		venues[i].Specials = append(venues[i].Specials, s)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate specials: %w", err)
	}
	_ = rows.Close()

	rows, err = dao.db.QueryContext(ctx,
		`SELECT venue_id, day_of_week, open_time, close_time
		 FROM operating_schedules WHERE venue_id IN (`+placeholders+`) ORDER BY venue_id, day_of_week, open_time`, ids...)
	if err != nil {
		return fmt.Errorf("query operating schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			venueID         string
			day             int
			openRaw, closed string
		)
		if err := rows.Scan(&venueID, &day, &openRaw, &closed); err != nil {
			return fmt.Errorf("scan operating schedule: %w", err)
		}
		open, err := venue.ParseTimeOfDay(openRaw)
		if err != nil {
			return err
		}
		closeTime, err := venue.ParseTimeOfDay(closed)
		if err != nil {
			return err
		}
		i := index[venueID]
		venues[i].OperatingSchedules = append(venues[i].OperatingSchedules, venue.OperatingSchedule{
			DayOfWeek: time.Weekday(day),
			OpenTime:  open,
			CloseTime: closeTime,
		})
	}
	return rows.Err()
}

func scanSpecial(rows *sql.Rows) (string, venue.Special, error) {
	var (
		venueID              string
		s                    venue.Special
		startDate, startTime string
		endTime, expiration  sql.NullString
		recurring            int
	)
	if err := rows.Scan(&venueID, &s.ID, &s.Content, &s.Type, &startDate, &startTime,
		&endTime, &expiration, &recurring, &s.CronSchedule); err != nil {
		return "", s, fmt.Errorf("scan special: %w", err)
	}

	var err error
	if startDate != "" {
		if s.StartDate, err = venue.ParseDate(startDate); err != nil {
			return "", s, err
		}
	}
	if s.StartTime, err = venue.ParseTimeOfDay(startTime); err != nil {
		return "", s, err
	}
	if endTime.Valid {
		e, err := venue.ParseTimeOfDay(endTime.String)
		if err != nil {
			return "", s, err
		}
		s.EndTime = &e
	}
	if expiration.Valid {
		d, err := venue.ParseDate(expiration.String)
		if err != nil {
			return "", s, err
		}
		s.ExpirationDate = &d
	}
	s.IsRecurring = recurring != 0
	return venueID, s, nil
}

// dateColumn stores the zero Date as an empty string.
func dateColumn(d venue.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
