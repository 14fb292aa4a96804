package hooks

import (
	"context"

	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services"
	"github.com/yndnr/hireflow-go/internal/client/services/job"
)

// Jobs searches postings and manages applications.
type Jobs struct {
	base
	svc *job.Service
}

// NewJobs creates the jobs hook.
func NewJobs(svc *job.Service, cache *query.Cache, n notify.Notifier) *Jobs {
	return &Jobs{base: newBase(cache, n), svc: svc}
}

// Search returns one page of postings matching f.
func (j *Jobs) Search(ctx context.Context, f job.Filter) (job.Page, error) {
	return read(ctx, &j.base, job.KeyJobs(f), func(ctx context.Context) (job.Page, error) {
		return j.svc.Jobs(ctx, f)
	})
}

// Job returns one posting.
func (j *Jobs) Job(ctx context.Context, id services.ID) (job.Job, error) {
	return read(ctx, &j.base, job.KeyJob(id), func(ctx context.Context) (job.Job, error) {
		return j.svc.Job(ctx, id)
	})
}

// Applications lists the user's applications.
func (j *Jobs) Applications(ctx context.Context) ([]job.Application, error) {
	return read(ctx, &j.base, job.KeyApplications, j.svc.MyApplications)
}

// Apply submits an application to a posting.
func (j *Jobs) Apply(ctx context.Context, req job.ApplyRequest) (job.Application, error) {
	return write(ctx, &j.base, j.svc.ApplyMutation(), req, "Application submitted")
}

// Withdraw cancels an application.
func (j *Jobs) Withdraw(ctx context.Context, id services.ID) error {
	_, err := write(ctx, &j.base, j.svc.WithdrawMutation(), id, "Application withdrawn")
	return err
}
