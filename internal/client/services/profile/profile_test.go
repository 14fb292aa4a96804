package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/apierror"
	"github.com/yndnr/hireflow-go/internal/client/query"
)

func newService(t *testing.T, handler http.HandlerFunc) (*Service, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.NewFactory(apiclient.FactoryConfig{}).New(apiclient.ServiceProfile, srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return New(client), hits
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestService_Endpoints(t *testing.T) {
	tests := []struct {
		name       string
		wantMethod string
		wantPath   string
		call       func(*Service) error
	}{
		{"profile", http.MethodGet, "/profiles/me", func(s *Service) error {
			_, err := s.Profile(context.Background())
			return err
		}},
		{"update profile", http.MethodPut, "/profiles/me", func(s *Service) error {
			_, err := s.UpdateProfile(context.Background(), UpdateRequest{Headline: "Go developer"})
			return err
		}},
		{"completion", http.MethodGet, "/profiles/me/completion", func(s *Service) error {
			_, err := s.Completion(context.Background())
			return err
		}},
		{"skills", http.MethodGet, "/profiles/me/skills", func(s *Service) error {
			_, err := s.MySkills(context.Background())
			return err
		}},
		{"skill", http.MethodGet, "/profiles/me/skills/7", func(s *Service) error {
			_, err := s.Skill(context.Background(), "7")
			return err
		}},
		{"add skill", http.MethodPost, "/profiles/me/skills", func(s *Service) error {
			_, err := s.AddSkill(context.Background(), SkillInput{Name: "Go"})
			return err
		}},
		{"update skill", http.MethodPatch, "/profiles/me/skills/7", func(s *Service) error {
			_, err := s.UpdateSkill(context.Background(), "7", SkillInput{Name: "Go", Level: "expert"})
			return err
		}},
		{"delete skill", http.MethodDelete, "/profiles/me/skills/7", func(s *Service) error {
			return s.DeleteSkill(context.Background(), "7")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != tt.wantMethod || r.URL.Path != tt.wantPath {
					t.Errorf("got %s %s, want %s %s", r.Method, r.URL.Path, tt.wantMethod, tt.wantPath)
				}
				writeJSON(w, http.StatusOK, map[string]any{})
			})
			if err := tt.call(svc); err != nil {
				t.Errorf("call error = %v", err)
			}
		})
	}
}

func TestAddSkill_Validation(t *testing.T) {
	svc, hits := newService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.AddSkill(context.Background(), SkillInput{Level: "guru"})
	if !apierror.IsValidation(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	apiErr, _ := apierror.AsError(err)
	if len(apiErr.FieldErrors("name")) == 0 || len(apiErr.FieldErrors("level")) == 0 {
		t.Errorf("Errors = %v", apiErr.Errors)
	}
	if hits.Load() != 0 {
		t.Errorf("hits = %d, want 0", hits.Load())
	}
}

func TestAddSkill_InvalidationCausesRefetch(t *testing.T) {
	var skills []Skill
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, skills)
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			var in SkillInput
			json.Unmarshal(body, &in)
			s := Skill{ID: "1", Name: in.Name}
			skills = append(skills, s)
			writeJSON(w, http.StatusCreated, s)
		}
	})

	cache := query.New()
	ctx := context.Background()

	before, err := query.Fetch(ctx, cache, KeySkills, svc.MySkills)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != 0 {
		t.Fatalf("before = %v, want empty", before)
	}

	if _, err := query.Mutate(ctx, cache, svc.AddSkillMutation(), SkillInput{Name: "Go"}); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	if !cache.IsStale(KeySkills) {
		t.Error("my-skills should be stale after add")
	}

	after, err := query.Fetch(ctx, cache, KeySkills, svc.MySkills)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0].Name != "Go" {
		t.Errorf("after = %v", after)
	}
}

func TestSkillMutations_InvalidateSkillKey(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cache := query.New()
	cache.SetData(KeySkill("7"), Skill{ID: "7"})
	cache.SetData(KeySkill("8"), Skill{ID: "8"})
	cache.SetData(KeyCompletion, Completion{Percentage: 50})

	if _, err := query.Mutate(context.Background(), cache, svc.DeleteSkillMutation(), "7"); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	if !cache.IsStale(KeySkill("7")) || !cache.IsStale(KeyCompletion) {
		t.Error("skill 7 and completion should be stale")
	}
	if cache.IsStale(KeySkill("8")) {
		t.Error("skill 8 should stay fresh")
	}
}
