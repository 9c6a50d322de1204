package clock

import (
	"context"
	"time"

	"miticaje.com/miticaje/clock/model"
	v1 "miticaje.com/miticaje/miticaje/v1"
	"miticaje.com/miticaje/stats"
)

// PunchUpdate is an admin correction to a stored punch. Justification and
// EditorID are mandatory.
type PunchUpdate struct {
	Action        *model.ActionType
	Timestamp     *time.Time
	WorkCenterID  *string
	Justification string
	EditorID      string
}

// RemoteStore is the consumed contract of the central record store. It does
// not deduplicate: resubmitting a punch whose success response was lost
// creates a second row (accepted limitation).
type RemoteStore interface {
	CreatePunch(ctx context.Context, punch model.PunchEvent) (model.PunchEvent, error)
	ListPunches(ctx context.Context, filter stats.Filter) ([]model.PunchEvent, error)
	UpdatePunch(ctx context.Context, id string, update PunchUpdate) (model.PunchEvent, error)
}

// APIRemoteStore adapts the v1 HTTP client to the RemoteStore contract.
type APIRemoteStore struct {
	Client *v1.MiticajeClient
}

func NewAPIRemoteStore(client *v1.MiticajeClient) *APIRemoteStore {
	return &APIRemoteStore{Client: client}
}

func (s *APIRemoteStore) CreatePunch(ctx context.Context, punch model.PunchEvent) (model.PunchEvent, error) {
	dto := toDTO(punch)
	// remote assigns the id
	dto.ID = ""

	created, err := s.Client.Records.Create(ctx, &dto)
	if err != nil {
		return model.PunchEvent{}, err
	}
	return fromDTO(*created), nil
}

func (s *APIRemoteStore) UpdatePunch(ctx context.Context, id string, update PunchUpdate) (model.PunchEvent, error) {
	dto := &v1.UpdateRecordDTO{
		Timestamp:     update.Timestamp,
		WorkCenterID:  update.WorkCenterID,
		Justification: update.Justification,
		EditorID:      update.EditorID,
	}
	if update.Action != nil {
		action := string(*update.Action)
		dto.ActionType = &action
	}

	updated, err := s.Client.Records.Update(ctx, id, dto)
	if err != nil {
		return model.PunchEvent{}, err
	}
	return fromDTO(*updated), nil
}

func (s *APIRemoteStore) ListPunches(ctx context.Context, filter stats.Filter) ([]model.PunchEvent, error) {
	dto := &v1.RecordFilterDTO{
		EmployeeID:   filter.EmployeeID,
		WorkCenterID: filter.WorkCenterID,
		ActionType:   string(filter.Action),
	}
	if !filter.From.IsZero() {
		from := filter.From
		dto.From = &from
	}
	if !filter.To.IsZero() {
		to := filter.To
		dto.To = &to
	}

	records, err := s.Client.Records.Search(ctx, dto)
	if err != nil {
		return nil, err
	}

	punches := make([]model.PunchEvent, 0, len(records))
	for _, r := range records {
		punches = append(punches, fromDTO(r))
	}
	return punches, nil
}

func toDTO(p model.PunchEvent) v1.TimeRecordDTO {
	dto := v1.TimeRecordDTO{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		ActionType:    string(p.Action),
		Timestamp:     p.Timestamp,
		LocationError: p.LocationError,
		WorkCenterID:  p.WorkCenterID,
	}
	if p.Location != nil {
		dto.Location = &v1.LocationDTO{
			Latitude:   p.Location.Latitude,
			Longitude:  p.Location.Longitude,
			Accuracy:   p.Location.Accuracy,
			Address:    p.Location.Address,
			CapturedAt: p.Location.CapturedAt,
		}
	}
	return dto
}

func fromDTO(dto v1.TimeRecordDTO) model.PunchEvent {
	p := model.PunchEvent{
		ID:            dto.ID,
		EmployeeID:    dto.EmployeeID,
		Action:        model.ActionType(dto.ActionType),
		Timestamp:     dto.Timestamp,
		LocationError: dto.LocationError,
		WorkCenterID:  dto.WorkCenterID,
	}
	if dto.Location != nil {
		p.Location = &model.Location{
			Latitude:   dto.Location.Latitude,
			Longitude:  dto.Location.Longitude,
			Accuracy:   dto.Location.Accuracy,
			Address:    dto.Location.Address,
			CapturedAt: dto.Location.CapturedAt,
		}
	}
	return p
}
