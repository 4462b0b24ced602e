package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"time"
)

// SQLite backed cache for routed legs, keyed by mode and rounded endpoints.
type SqliteLegCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSqliteLegCache(db *sql.DB, ttl time.Duration) *SqliteLegCache {
	return &SqliteLegCache{DB: db, TTL: ttl}
}

func (s *SqliteLegCache) Get(
	ctx context.Context,
	from, to domain.Coordinates,
	mode domain.TransportMode,
) (domain.TravelLeg, bool, error) {
	if s.DB == nil {
		return domain.TravelLeg{}, false, errors.New("leg cache: db is nil")
	}

	q := `
	SELECT
        distance_km,
        duration_min,
        cached_at
    FROM leg_cache
    WHERE mode = ?
        AND origin = ?
        AND destination = ?;
	`

	var km, minutes float64
	var cachedAt int64
	err := s.DB.QueryRowContext(ctx, q, string(mode), coordKey(from), coordKey(to)).Scan(&km, &minutes, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelLeg{}, false, nil
	}
	if err != nil {
		return domain.TravelLeg{}, false, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(time.Unix(cachedAt, 0)) > s.TTL {
		return domain.TravelLeg{}, false, nil
	}

	return domain.TravelLeg{
		From:        from,
		To:          to,
		Mode:        mode,
		DistanceKm:  km,
		DurationMin: minutes,
	}, true, nil
}

func (s *SqliteLegCache) Set(ctx context.Context, leg domain.TravelLeg) error {
	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO leg_cache (
        mode,
        origin,
        destination,
        distance_km,
        duration_min,
        cached_at
    )
    VALUES (?, ?, ?, ?, ?, ?);
	`, string(leg.Mode), coordKey(leg.From), coordKey(leg.To), leg.DistanceKm, leg.DurationMin, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert leg cache mode=%s: %w", leg.Mode, err)
	}

	return nil
}
