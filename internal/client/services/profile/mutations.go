package profile

import (
	"context"

	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services"
)

// UpdateProfileMutation updates the profile.
func (s *Service) UpdateProfileMutation() query.Mutation[UpdateRequest, Profile] {
	return query.Mutation[UpdateRequest, Profile]{
		Name: "update-profile",
		Do:   s.UpdateProfile,
		Invalidates: func(UpdateRequest, Profile) []query.Key {
			return []query.Key{KeyProfile, KeyCompletion}
		},
	}
}

// AddSkillMutation adds a skill.
func (s *Service) AddSkillMutation() query.Mutation[SkillInput, Skill] {
	return query.Mutation[SkillInput, Skill]{
		Name: "add-skill",
		Do:   s.AddSkill,
		Invalidates: func(SkillInput, Skill) []query.Key {
			return []query.Key{KeySkills, KeyCompletion}
		},
	}
}

// UpdateSkillMutation changes a skill.
func (s *Service) UpdateSkillMutation() query.Mutation[SkillUpdate, Skill] {
	return query.Mutation[SkillUpdate, Skill]{
		Name: "update-skill",
		Do: func(ctx context.Context, in SkillUpdate) (Skill, error) {
			return s.UpdateSkill(ctx, in.ID, in.Input)
		},
		Invalidates: func(in SkillUpdate, _ Skill) []query.Key {
			return skillKeys(in.ID)
		},
	}
}

// DeleteSkillMutation removes a skill.
func (s *Service) DeleteSkillMutation() query.Mutation[services.ID, struct{}] {
	return query.Mutation[services.ID, struct{}]{
		Name: "delete-skill",
		Do: func(ctx context.Context, id services.ID) (struct{}, error) {
			return struct{}{}, s.DeleteSkill(ctx, id)
		},
		Invalidates: func(id services.ID, _ struct{}) []query.Key {
			return skillKeys(id)
		},
	}
}

func skillKeys(id services.ID) []query.Key {
	return []query.Key{KeySkills, KeySkill(id), KeyCompletion}
}
