// Package job is the client of the job service.
package job

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services"
)

// KeyApplications is the query key of the user's applications.
var KeyApplications = query.Key{"my-applications"}

// KeyJobs is the query key of one page of search results.
func KeyJobs(f Filter) query.Key {
	return query.Key{"jobs", f.Query, f.Location, f.Page, f.PageSize}
}

// KeyJob is the query key of one job.
func KeyJob(id services.ID) query.Key {
	return query.Key{"job", id.String()}
}

// Job is a posting.
type Job struct {
	ID          services.ID `json:"id"`
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	Description string      `json:"description,omitempty"`
	Salary      string      `json:"salary,omitempty"`
	PostedAt    string      `json:"postedAt,omitempty"`
	Applied     bool        `json:"applied,omitempty"`
}

// Filter selects a page of jobs. Zero fields are omitted from the request.
type Filter struct {
	Query    string
	Location string
	Page     int
	PageSize int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	q.Set("q", f.Query)
	q.Set("location", f.Location)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return q
}

// Page is one page of search results.
type Page struct {
	Items    []Job `json:"items"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Application is a submitted application.
type Application struct {
	ID          services.ID `json:"id"`
	JobID       services.ID `json:"jobId"`
	JobTitle    string      `json:"jobTitle,omitempty"`
	Status      string      `json:"status"`
	CoverLetter string      `json:"coverLetter,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
}

// ApplyRequest applies to a job.
type ApplyRequest struct {
	JobID       services.ID `json:"-" validate:"required"`
	CoverLetter string      `json:"coverLetter,omitempty" validate:"max=5000"`
}

// Service calls the job service.
type Service struct {
	client *apiclient.Client
}

// New creates a Service.
func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Jobs searches postings.
func (s *Service) Jobs(ctx context.Context, f Filter) (Page, error) {
	return apiclient.Get[Page](ctx, s.client, "/jobs", apiclient.WithQuery(f.values()))
}

// Job returns one posting.
func (s *Service) Job(ctx context.Context, id services.ID) (Job, error) {
	return apiclient.Get[Job](ctx, s.client, "/jobs/"+url.PathEscape(id.String()))
}

// Apply submits an application.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (Application, error) {
	return apiclient.Post[Application](ctx, s.client,
		"/jobs/"+url.PathEscape(req.JobID.String())+"/applications", req)
}

// MyApplications lists the user's applications.
func (s *Service) MyApplications(ctx context.Context) ([]Application, error) {
	return apiclient.Get[[]Application](ctx, s.client, "/applications/me")
}

// Withdraw withdraws an application.
func (s *Service) Withdraw(ctx context.Context, id services.ID) error {
	_, err := apiclient.Delete[any](ctx, s.client, "/applications/"+url.PathEscape(id.String()))
	return err
}

// ApplyMutation applies to a job.
func (s *Service) ApplyMutation() query.Mutation[ApplyRequest, Application] {
	return query.Mutation[ApplyRequest, Application]{
		Name: "apply",
		Do:   s.Apply,
		Invalidates: func(in ApplyRequest, _ Application) []query.Key {
			return []query.Key{KeyApplications, KeyJob(in.JobID)}
		},
	}
}

// WithdrawMutation withdraws an application.
func (s *Service) WithdrawMutation() query.Mutation[services.ID, struct{}] {
	return query.Mutation[services.ID, struct{}]{
		Name: "withdraw",
		Do: func(ctx context.Context, id services.ID) (struct{}, error) {
			return struct{}{}, s.Withdraw(ctx, id)
		},
		Invalidates: func(services.ID, struct{}) []query.Key {
			return []query.Key{KeyApplications}
		},
	}
}
