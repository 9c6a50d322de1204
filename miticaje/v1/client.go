package v1

type MiticajeClient struct {
	Transport *Transport
	Records   *RecordsEndpoint
	Employees *EmployeesEndpoint
}

// NewMiticajeClient initializes the API client
func NewMiticajeClient(baseURL string, token string) *MiticajeClient {
	t := NewTransport(baseURL, token)
	return &MiticajeClient{
		Transport: t,
		Records:   &RecordsEndpoint{transport: t},
		Employees: &EmployeesEndpoint{transport: t},
	}
}

// Ping checks whether the remote store is reachable.
func (c *MiticajeClient) Ping() bool {
	resp, err := c.Transport.HTTPClient.Get(c.Transport.BaseURL + "/ping")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 300
}
