// Package profile is the client of the profile service.
package profile

import (
	"context"
	"net/url"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services"
)

// Query keys.
var (
	KeyProfile    = query.Key{"my-profile"}
	KeyCompletion = query.Key{"profile-completion"}
	KeySkills     = query.Key{"my-skills"}
)

// KeySkill is the query key of one skill.
func KeySkill(id services.ID) query.Key {
	return query.Key{"skill", id.String()}
}

// Profile is the candidate profile of the signed-in user.
type Profile struct {
	ID                services.ID `json:"id"`
	UserID            services.ID `json:"userId"`
	Headline          string      `json:"headline"`
	Summary           string      `json:"summary"`
	Location          string      `json:"location"`
	YearsOfExperience int         `json:"yearsOfExperience"`
	UpdatedAt         string      `json:"updatedAt,omitempty"`
}

// UpdateRequest replaces the editable profile fields.
type UpdateRequest struct {
	Headline          string `json:"headline" validate:"max=120"`
	Summary           string `json:"summary" validate:"max=2000"`
	Location          string `json:"location" validate:"max=100"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"min=0,max=60"`
}

// Completion reports how complete the profile is.
type Completion struct {
	Percentage int      `json:"percentage"`
	Missing    []string `json:"missing"`
}

// Skill is one entry of the skill list.
type Skill struct {
	ID                services.ID `json:"id"`
	Name              string      `json:"name"`
	Level             string      `json:"level"`
	YearsOfExperience int         `json:"yearsOfExperience"`
}

// SkillInput creates or updates a skill.
type SkillInput struct {
	Name              string `json:"name" validate:"required,max=64"`
	Level             string `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"min=0,max=60"`
}

// SkillUpdate addresses a skill by id.
type SkillUpdate struct {
	ID    services.ID
	Input SkillInput
}

// Service calls the profile service.
type Service struct {
	client *apiclient.Client
}

// New creates a Service.
func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Profile returns the signed-in user's profile.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	return apiclient.Get[Profile](ctx, s.client, "/profiles/me")
}

// UpdateProfile replaces the editable fields.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateRequest) (Profile, error) {
	return apiclient.Put[Profile](ctx, s.client, "/profiles/me", req)
}

// Completion returns the completion report.
func (s *Service) Completion(ctx context.Context) (Completion, error) {
	return apiclient.Get[Completion](ctx, s.client, "/profiles/me/completion")
}

// MySkills lists the skills.
func (s *Service) MySkills(ctx context.Context) ([]Skill, error) {
	return apiclient.Get[[]Skill](ctx, s.client, "/profiles/me/skills")
}

// Skill returns one skill.
func (s *Service) Skill(ctx context.Context, id services.ID) (Skill, error) {
	return apiclient.Get[Skill](ctx, s.client, skillPath(id))
}

// AddSkill creates a skill.
func (s *Service) AddSkill(ctx context.Context, in SkillInput) (Skill, error) {
	return apiclient.Post[Skill](ctx, s.client, "/profiles/me/skills", in)
}

// UpdateSkill changes a skill.
func (s *Service) UpdateSkill(ctx context.Context, id services.ID, in SkillInput) (Skill, error) {
	return apiclient.Patch[Skill](ctx, s.client, skillPath(id), in)
}

// DeleteSkill removes a skill.
func (s *Service) DeleteSkill(ctx context.Context, id services.ID) error {
	_, err := apiclient.Delete[any](ctx, s.client, skillPath(id))
	return err
}

func skillPath(id services.ID) string {
	return "/profiles/me/skills/" + url.PathEscape(id.String())
}
