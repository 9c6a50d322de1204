package handlers

import (
	"time"

	"miticaje.com/miticaje/core"
)

type LocationDTO struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	Address    string    `json:"address,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}

type TimeRecordDTO struct {
	ID            string       `json:"id,omitempty"`
	EmployeeID    string       `json:"employeeId" binding:"required"`
	ActionType    string       `json:"actionType" binding:"required,oneof=clock_in clock_out break_start break_end"`
	Timestamp     time.Time    `json:"timestamp" binding:"required"`
	Location      *LocationDTO `json:"location,omitempty"`
	LocationError string       `json:"locationError,omitempty"`
	WorkCenterID  string       `json:"workCenterId,omitempty"`

	EditedByAdmin      bool       `json:"editedByAdmin,omitempty"`
	AdminJustification string     `json:"adminJustification,omitempty"`
	AdminEditorID      string     `json:"adminEditorId,omitempty"`
	EditedAt           *time.Time `json:"editedAt,omitempty"`
}

type RecordFilterDTO struct {
	EmployeeID   string     `json:"employeeId"`
	WorkCenterID string     `json:"workCenterId"`
	ActionType   string     `json:"actionType"`
	From         *time.Time `json:"from"`
	To           *time.Time `json:"to"`
}

type UpdateRecordDTO struct {
	ActionType    *string    `json:"actionType" binding:"omitempty,oneof=clock_in clock_out break_start break_end"`
	Timestamp     *time.Time `json:"timestamp"`
	WorkCenterID  *string    `json:"workCenterId"`
	Justification string     `json:"justification" binding:"required"`
	EditorID      string     `json:"editorId" binding:"required"`
}

func toRecordDTO(r core.TimeRecord) TimeRecordDTO {
	dto := TimeRecordDTO{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		ActionType:    r.ActionType,
		Timestamp:     r.Timestamp,
		EditedByAdmin: r.EditedByAdmin,
	}
	if r.Latitude != nil && r.Longitude != nil {
		loc := &LocationDTO{
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		}
		if r.Accuracy != nil {
			loc.Accuracy = *r.Accuracy
		}
		if r.Address != nil {
			loc.Address = *r.Address
		}
		if r.LocationCapturedAt != nil {
			loc.CapturedAt = *r.LocationCapturedAt
		}
		dto.Location = loc
	}
	if r.LocationError != nil {
		dto.LocationError = *r.LocationError
	}
	if r.WorkCenterID != nil {
		dto.WorkCenterID = *r.WorkCenterID
	}
	if r.AdminJustification != nil {
		dto.AdminJustification = *r.AdminJustification
	}
	if r.AdminEditorID != nil {
		dto.AdminEditorID = *r.AdminEditorID
	}
	dto.EditedAt = r.EditedAt
	return dto
}
