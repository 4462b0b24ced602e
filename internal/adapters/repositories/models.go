package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip parameters as stored. Meal windows are kept as "HH:MM" strings.
type TripRecord struct {
	ID             string `gorm:"primaryKey"`
	Title          string
	DepartureDate  time.Time `gorm:"type:date"`
	TotalNights    int
	TransportMode  string
	Intensity      int
	BreakfastStart string
	BreakfastEnd   string
	LunchStart     string
	LunchEnd       string
	DinnerStart    string
	DinnerEnd      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Destinations []DestinationRecord `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

func (TripRecord) TableName() string { return "trips" }

type DestinationRecord struct {
	ID       string `gorm:"primaryKey"`
	TripID   string `gorm:"primaryKey"`
	Position int
	Name     string
	Category string
	Address  string
	Lat      *float64
	Lon      *float64
	PhotoURL string
	Rating   *float64
}

func (DestinationRecord) TableName() string { return "destinations" }

// Planned rows hold the result of the trip's latest committed run.
type planBase struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

func (b *planBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type PlannedDayRecord struct {
	planBase
	TripID        string `gorm:"index"`
	RunID         string
	Date          time.Time `gorm:"type:date"`
	HotelID       string
	HotelName     string
	DepartHotelAt *time.Time
	ReturnHotelAt *time.Time

	Stops []PlannedStopRecord `gorm:"foreignKey:PlannedDayID;constraint:OnDelete:CASCADE"`
}

func (PlannedDayRecord) TableName() string { return "planned_days" }

type PlannedStopRecord struct {
	planBase
	PlannedDayID   uuid.UUID `gorm:"type:uuid;index"`
	Position       int
	DestinationID  string
	Name           string
	Category       string
	StartAt        time.Time
	EndAt          time.Time
	LegDistanceKm  *float64
	LegDurationMin *float64
	LegEstimated   bool
}

func (PlannedStopRecord) TableName() string { return "planned_stops" }

// Migrate creates or updates the record store tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TripRecord{}, &DestinationRecord{}, &PlannedDayRecord{}, &PlannedStopRecord{})
}
