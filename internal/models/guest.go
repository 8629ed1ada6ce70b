package models

import "time"

type Guest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fullname    string    `gorm:"not null" json:"fullname"`
	Email       string    `gorm:"not null;uniqueIndex" json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	CountryFlag string    `json:"country_flag,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
