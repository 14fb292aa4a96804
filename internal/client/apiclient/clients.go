package apiclient

import "fmt"

// URLs holds the base URL of each backend service.
type URLs struct {
	User    string
	Profile string
	Job     string
}

// Clients holds one client per backend service for the process lifetime.
type Clients struct {
	User    *Client
	Profile *Client
	Job     *Client
}

// NewClients builds the three service clients.
func NewClients(f *Factory, urls URLs) (*Clients, error) {
	user, err := f.New(ServiceUser, urls.User)
	if err != nil {
		return nil, fmt.Errorf("create clients: %w", err)
	}
	profile, err := f.New(ServiceProfile, urls.Profile)
	if err != nil {
		return nil, fmt.Errorf("create clients: %w", err)
	}
	job, err := f.New(ServiceJob, urls.Job)
	if err != nil {
		return nil, fmt.Errorf("create clients: %w", err)
	}
	return &Clients{User: user, Profile: profile, Job: job}, nil
}
