package v1

import (
	"context"
	"encoding/json"
	"fmt"

	"miticaje.com/miticaje/miticaje/v1/common"
)

type EmployeeDTO struct {
	ID           string `json:"id,omitempty"`
	InternalID   string `json:"internalId"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	WorkCenterID string `json:"workCenterId,omitempty"`
	Active       bool   `json:"active"`
}

type EmployeesEndpoint struct {
	transport *Transport
}

func (e *EmployeesEndpoint) List(ctx context.Context) ([]EmployeeDTO, error) {
	resp, err := e.transport.Get(ctx, "/api/v1/employees", nil)
	if err != nil {
		return nil, err
	}

	var result common.StatusAPIResponse[[]EmployeeDTO]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("list employees failed: %v", result.Error)
	}

	return result.Data, nil
}
