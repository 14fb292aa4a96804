package hooks

import (
	"context"

	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services"
	"github.com/yndnr/hireflow-go/internal/client/services/profile"
)

// Profile reads and edits the candidate profile and its skills.
type Profile struct {
	base
	svc *profile.Service
}

// NewProfile creates the profile hook.
func NewProfile(svc *profile.Service, cache *query.Cache, n notify.Notifier) *Profile {
	return &Profile{base: newBase(cache, n), svc: svc}
}

// Profile returns the signed-in user's profile.
func (p *Profile) Profile(ctx context.Context) (profile.Profile, error) {
	return read(ctx, &p.base, profile.KeyProfile, p.svc.Profile)
}

// Completion returns how complete the profile is.
func (p *Profile) Completion(ctx context.Context) (profile.Completion, error) {
	return read(ctx, &p.base, profile.KeyCompletion, p.svc.Completion)
}

// Skills lists the user's skills.
func (p *Profile) Skills(ctx context.Context) ([]profile.Skill, error) {
	return read(ctx, &p.base, profile.KeySkills, p.svc.MySkills)
}

// Skill returns one skill by id.
func (p *Profile) Skill(ctx context.Context, id services.ID) (profile.Skill, error) {
	return read(ctx, &p.base, profile.KeySkill(id), func(ctx context.Context) (profile.Skill, error) {
		return p.svc.Skill(ctx, id)
	})
}

// Update replaces the editable profile fields.
func (p *Profile) Update(ctx context.Context, req profile.UpdateRequest) (profile.Profile, error) {
	return write(ctx, &p.base, p.svc.UpdateProfileMutation(), req, "Profile updated")
}

// AddSkill adds a skill to the profile.
func (p *Profile) AddSkill(ctx context.Context, in profile.SkillInput) (profile.Skill, error) {
	return write(ctx, &p.base, p.svc.AddSkillMutation(), in, "Skill added")
}

// UpdateSkill changes the skill with the given id.
func (p *Profile) UpdateSkill(ctx context.Context, id services.ID, in profile.SkillInput) (profile.Skill, error) {
	return write(ctx, &p.base, p.svc.UpdateSkillMutation(), profile.SkillUpdate{ID: id, Input: in}, "Skill updated")
}

// DeleteSkill removes the skill with the given id.
func (p *Profile) DeleteSkill(ctx context.Context, id services.ID) error {
	_, err := write(ctx, &p.base, p.svc.DeleteSkillMutation(), id, "Skill removed")
	return err
}
