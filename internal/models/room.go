package models

import (
	"regexp"
	"strings"
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomUnavailable RoomStatus = "unavailable"
)

// Room is a bookable unit of a property. Status is owner-controlled and
// independent of any reservations on the calendar.
type Room struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PropertyID uint       `gorm:"not null;index" json:"property_id"`
	Name       string     `gorm:"not null" json:"name"`
	Slug       string     `gorm:"index" json:"slug"`
	Price      float64    `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount   float64    `gorm:"not null;default:0" json:"discount"`
	Capacity   int        `gorm:"not null" json:"capacity"`
	Sleeps     int        `gorm:"not null;default:1" json:"sleeps"`
	BedType    string     `json:"bed_type,omitempty"`
	BedCount   int        `gorm:"not null;default:1" json:"bed_count"`
	RoomType   string     `json:"room_type,omitempty"`
	Status     RoomStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
