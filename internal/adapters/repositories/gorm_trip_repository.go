package repositories

import (
	"context"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres-backed implementation of the TripRepository port.
type GormTripRepository struct {
	db *gorm.DB
}

func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

func (r *GormTripRepository) GetTrip(ctx context.Context, tripID string) (_ *domain.TripParameters, err error) {
	defer obs.Time(ctx, "trips.GetTrip")(&err)

	var rec TripRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get trip %q: %w", tripID, domain.ErrTripNotFound)
		}
		return nil, fmt.Errorf("get trip %q: %w", tripID, err)
	}

	trip, err := rec.toDomain()
	if err != nil {
		return nil, fmt.Errorf("get trip %q: %w", tripID, err)
	}
	return trip, nil
}

func (r *GormTripRepository) ListDestinations(ctx context.Context, tripID string) (_ []*domain.Destination, err error) {
	defer obs.Time(ctx, "trips.ListDestinations")(&err)

	var recs []DestinationRecord
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("position").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list destinations of %q: %w", tripID, err)
	}

	out := make([]*domain.Destination, 0, len(recs))
	for _, rec := range recs {
		d, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list destinations of %q: %w", tripID, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ReplacePlan wipes the stored plan of a trip and writes it in one transaction.
func (r *GormTripRepository) ReplacePlan(ctx context.Context, tripID string, it *domain.Itinerary) (err error) {
	defer obs.Time(ctx, "trips.ReplacePlan")(&err)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dayIDs := tx.Model(&PlannedDayRecord{}).
			Select("id").
			Where("trip_id = ?", tripID)

		if err := tx.Where("planned_day_id IN (?)", dayIDs).
			Delete(&PlannedStopRecord{}).Error; err != nil {
			return fmt.Errorf("replace plan: delete stops: %w", err)
		}
		if err := tx.Where("trip_id = ?", tripID).
			Delete(&PlannedDayRecord{}).Error; err != nil {
			return fmt.Errorf("replace plan: delete days: %w", err)
		}

		hotelIDs := make(map[string]string, len(it.Hotels))
		for _, h := range it.Hotels {
			hotelIDs[h.Name] = h.ID
		}

		for _, day := range it.Days {
			rec := PlannedDayRecord{
				TripID:        tripID,
				RunID:         it.RunID,
				Date:          day.Date,
				HotelID:       hotelIDs[day.Hotel],
				HotelName:     day.Hotel,
				DepartHotelAt: day.DepartHotelAt,
				ReturnHotelAt: day.ReturnHotelAt,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("replace plan: create day %s: %w", day.Date.Format(domain.DateLayout), err)
			}

			stops := make([]PlannedStopRecord, 0, len(day.Stops))
			for i, s := range day.Stops {
				if s.Start == nil || s.End == nil {
					continue
				}
				stop := PlannedStopRecord{
					PlannedDayID:  rec.ID,
					Position:      i,
					DestinationID: s.ID,
					Name:          s.Name,
					Category:      string(s.Category),
					StartAt:       *s.Start,
					EndAt:         *s.End,
				}
				if leg := s.IncomingLeg; leg != nil {
					km, mins := leg.DistanceKm, leg.DurationMin
					stop.LegDistanceKm = &km
					stop.LegDurationMin = &mins
					stop.LegEstimated = leg.Estimated
				}
				stops = append(stops, stop)
			}
			if len(stops) > 0 {
				if err := tx.Create(&stops).Error; err != nil {
					return fmt.Errorf("replace plan: create stops: %w", err)
				}
			}
		}
		return nil
	})
}

// SaveCoordinates writes resolved coordinates back so later runs skip geocoding.
func (r *GormTripRepository) SaveCoordinates(ctx context.Context, tripID string, dests []*domain.Destination) (err error) {
	defer obs.Time(ctx, "trips.SaveCoordinates")(&err)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range dests {
			if !d.Resolved() {
				continue
			}
			if err := tx.Model(&DestinationRecord{}).
				Where("trip_id = ? AND id = ?", tripID, d.ID).
				Updates(map[string]any{"lat": d.Coordinates.Lat, "lon": d.Coordinates.Lon}).Error; err != nil {
				return fmt.Errorf("save coordinates of %q: %w", d.ID, err)
			}
		}
		return nil
	})
}

// SaveTrip upserts a trip and replaces its candidate pool.
func (r *GormTripRepository) SaveTrip(ctx context.Context, trip domain.TripParameters, dests []*domain.Destination) error {
	rec := tripRecord(trip)
	recs := make([]DestinationRecord, 0, len(dests))
	for i, d := range dests {
		recs = append(recs, destinationRecord(trip.TripID, i, d))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
			return fmt.Errorf("save trip %q: %w", trip.TripID, err)
		}
		if err := tx.Where("trip_id = ?", trip.TripID).Delete(&DestinationRecord{}).Error; err != nil {
			return fmt.Errorf("save trip %q: clear destinations: %w", trip.TripID, err)
		}
		if len(recs) > 0 {
			if err := tx.Create(&recs).Error; err != nil {
				return fmt.Errorf("save trip %q: create destinations: %w", trip.TripID, err)
			}
		}
		return nil
	})
}
