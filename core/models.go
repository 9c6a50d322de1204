package core

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// TimeRecord is a persisted punch. The store does not enforce action-type
// ordering per employee; the stats layer tolerates arbitrary sequences.
type TimeRecord struct {
	ID         string    `gorm:"primaryKey;size:64"`
	EmployeeID string    `gorm:"size:64;not null;index"`
	ActionType string    `gorm:"size:20;not null"`
	Timestamp  time.Time `gorm:"not null;index"`

	// Exactly one of the location columns group and LocationError may be set.
	Latitude           *float64
	Longitude          *float64
	Accuracy           *float64
	Address            *string `gorm:"size:512"`
	LocationCapturedAt *time.Time
	LocationError      *string `gorm:"size:255"`

	WorkCenterID *string `gorm:"size:64;index"`

	EditedByAdmin      bool
	AdminJustification *string `gorm:"size:512"`
	AdminEditorID      *string `gorm:"size:64"`
	EditedAt           *time.Time

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP"`
}

func (TimeRecord) TableName() string {
	return "time_records"
}

type Employee struct {
	ID           string  `gorm:"primaryKey;size:64"`
	InternalID   string  `gorm:"size:64;uniqueIndex"`
	Name         string  `gorm:"size:255;not null"`
	Email        *string `gorm:"size:255"`
	WorkCenterID *string `gorm:"size:64;index"`
	Active       bool    `gorm:"default:true"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP"`
}

func (Employee) TableName() string {
	return "employees"
}

type WorkCenter struct {
	ID      string  `gorm:"primaryKey;size:64"`
	Name    string  `gorm:"size:255;not null"`
	City    *string `gorm:"size:255"`
	Address *string `gorm:"size:512"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP"`
}

func (WorkCenter) TableName() string {
	return "work_centers"
}

type AppSetting struct {
	Key   string `gorm:"primaryKey;size:128"`
	Value string `gorm:"size:1024"`

	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}

func FindEmployeeByID(db *gorm.DB, id string) (*Employee, error) {
	var emp Employee
	result := db.First(&emp, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}
