package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"miticaje.com/miticaje/miticaje/v1/common"
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
	EmployeeID    string       `json:"employeeId"`
	ActionType    string       `json:"actionType"`
	Timestamp     time.Time    `json:"timestamp"`
	Location      *LocationDTO `json:"location,omitempty"`
	LocationError string       `json:"locationError,omitempty"`
	WorkCenterID  string       `json:"workCenterId,omitempty"`

	EditedByAdmin      bool       `json:"editedByAdmin,omitempty"`
	AdminJustification string     `json:"adminJustification,omitempty"`
	AdminEditorID      string     `json:"adminEditorId,omitempty"`
	EditedAt           *time.Time `json:"editedAt,omitempty"`
}

type RecordFilterDTO struct {
	EmployeeID   string     `json:"employeeId,omitempty"`
	WorkCenterID string     `json:"workCenterId,omitempty"`
	ActionType   string     `json:"actionType,omitempty"`
	From         *time.Time `json:"from,omitempty"`
	To           *time.Time `json:"to,omitempty"`
}

type UpdateRecordDTO struct {
	ActionType    *string    `json:"actionType,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	WorkCenterID  *string    `json:"workCenterId,omitempty"`
	Justification string     `json:"justification"`
	EditorID      string     `json:"editorId"`
}

type RecordsEndpoint struct {
	transport *Transport
}

// Create submits a punch to the remote store. The store assigns the id; any
// local "offline_" id on the DTO is ignored server-side.
func (e *RecordsEndpoint) Create(ctx context.Context, dto *TimeRecordDTO) (*TimeRecordDTO, error) {
	resp, err := e.transport.Post(ctx, "/api/v1/records", dto, nil)
	if err != nil {
		return nil, err
	}

	var result common.StatusAPIResponse[*TimeRecordDTO]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("create record failed: %v", result.Error)
	}

	return result.Data, nil
}

// Search returns the punch history matching the filter.
func (e *RecordsEndpoint) Search(ctx context.Context, filter *RecordFilterDTO) ([]TimeRecordDTO, error) {
	resp, err := e.transport.Post(ctx, "/api/v1/records/search", filter, nil)
	if err != nil {
		return nil, err
	}

	var result common.StatusAPIResponse[[]TimeRecordDTO]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("search records failed: %v", result.Error)
	}

	return result.Data, nil
}

// Update applies an admin edit. Justification is mandatory at this boundary.
func (e *RecordsEndpoint) Update(ctx context.Context, id string, update *UpdateRecordDTO) (*TimeRecordDTO, error) {
	if update.Justification == "" {
		return nil, fmt.Errorf("justification is required for admin edits")
	}

	resp, err := e.transport.Put(ctx, fmt.Sprintf("/api/v1/records/%s", id), update, nil)
	if err != nil {
		return nil, err
	}

	var result common.StatusAPIResponse[*TimeRecordDTO]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("update record failed: %v", result.Error)
	}

	return result.Data, nil
}
