package hooks

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/apierror"
	"github.com/yndnr/hireflow-go/internal/client/callstate"
	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/services/job"
	"github.com/yndnr/hireflow-go/internal/client/services/profile"
)

func TestAuth_LoginThenAuthenticatedRead(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.backend.handle("POST /user/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("login should be sent without a bearer token")
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "abc", "user": map[string]any{"id": "u1", "name": "Ada"}})
	})
	e.backend.handle("GET /profile/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "headline": "Gopher"})
	})

	u, err := e.auth.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.Name != "Ada" || !e.auth.IsAuthenticated() {
		t.Errorf("user = %+v, authenticated = %v", u, e.auth.IsAuthenticated())
	}
	if got := e.auth.State(); got.Loading || got.Error != nil {
		t.Errorf("State() = %+v, want idle without error", got)
	}

	p, err := e.profile.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.Headline != "Gopher" {
		t.Errorf("Headline = %q", p.Headline)
	}

	msgs := e.notes.Messages()
	if len(msgs) != 1 || msgs[0].Kind != notify.Success || msgs[0].Text != "Welcome, Ada" {
		t.Errorf("notifications = %+v", msgs)
	}
}

func TestAuth_SendOTPServerMessage(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.backend.handle("POST /user/auth/otp/send", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid phone"})
	})

	_, err := e.auth.SendOTP(context.Background(), "+15551234567")
	if err == nil {
		t.Fatal("SendOTP() should fail")
	}

	got := e.auth.State()
	if got.Loading {
		t.Error("Loading should be false")
	}
	if got.ErrorMessage() != "Invalid phone" {
		t.Errorf("Error = %q, want Invalid phone", got.ErrorMessage())
	}
	if len(e.notes.Messages()) != 0 {
		t.Errorf("failures should not notify: %+v", e.notes.Messages())
	}
}

func TestProfile_ExpiredSession(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.store.Set("stale", "u1")
	e.backend.handle("GET /profile/profiles/me/skills", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
	})

	_, err := e.profile.Skills(context.Background())
	if !apierror.IsAuth(err) {
		t.Fatalf("error = %v, want auth error", err)
	}
	if e.store.IsAuthenticated() {
		t.Error("store should be empty after 401")
	}
	if n := e.redirects.Load(); n != 1 {
		t.Errorf("redirects = %d, want 1", n)
	}
	if got := e.profile.State().ErrorMessage(); got != "Token expired" {
		t.Errorf("Error = %q", got)
	}
}

func TestProfile_ExpiredSessionDropsCachedData(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.store.Set("abc", "u1")
	e.backend.handle("GET /profile/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Sign in required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "headline": "Gopher"})
	})
	e.backend.handle("GET /profile/profiles/me/skills", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
	})
	ctx := context.Background()

	if _, err := e.profile.Profile(ctx); err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if _, err := e.profile.Skills(ctx); !apierror.IsAuth(err) {
		t.Fatalf("Skills() error = %v, want auth error", err)
	}
	if n := e.cache.Len(); n != 0 {
		t.Errorf("cache entries after 401 = %d, want 0", n)
	}

	_, err := e.profile.Profile(ctx)
	if !apierror.IsAuth(err) {
		t.Errorf("Profile() after 401 error = %v, want auth error", err)
	}
	if n := e.backend.count("GET /profile/profiles/me"); n != 2 {
		t.Errorf("profile requests = %d, want 2", n)
	}
}

func TestProfile_TimeoutKeepsSession(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{Timeout: "5"})
	e.store.Set("abc", "u1")
	e.backend.handle("GET /profile/profiles/me/completion", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
	})

	_, err := e.profile.Completion(context.Background())
	if !apierror.IsTransport(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
	if e.profile.State().Error == nil {
		t.Error("Error should be set")
	}
	if !e.store.IsAuthenticated() {
		t.Error("timeout must not touch the store")
	}
	if e.redirects.Load() != 0 {
		t.Error("timeout must not redirect")
	}
}

func TestProfile_AddSkillRefetchesSkills(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.store.Set("abc", "u1")

	skills := []map[string]any{}
	e.backend.handle("GET /profile/profiles/me/skills", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, skills)
	})
	e.backend.handle("POST /profile/profiles/me/skills", func(w http.ResponseWriter, r *http.Request) {
		var in profile.SkillInput
		json.NewDecoder(r.Body).Decode(&in)
		s := map[string]any{"id": len(skills) + 1, "name": in.Name}
		skills = append(skills, s)
		writeJSON(w, http.StatusCreated, s)
	})

	ctx := context.Background()
	if _, err := e.profile.Skills(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.profile.Skills(ctx); err != nil {
		t.Fatal(err)
	}
	if n := e.backend.count("GET /profile/profiles/me/skills"); n != 1 {
		t.Fatalf("reads before mutation = %d, want 1", n)
	}

	if _, err := e.profile.AddSkill(ctx, profile.SkillInput{Name: "Go", Level: "expert"}); err != nil {
		t.Fatalf("AddSkill() error = %v", err)
	}

	got, err := e.profile.Skills(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n := e.backend.count("GET /profile/profiles/me/skills"); n != 2 {
		t.Errorf("reads after mutation = %d, want 2", n)
	}
	if len(got) != 1 || got[0].Name != "Go" || got[0].ID != "1" {
		t.Errorf("skills = %+v", got)
	}

	msgs := e.notes.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Skill added" {
		t.Errorf("notifications = %+v", msgs)
	}
}

func TestJobs_ApplyAndWithdraw(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.store.Set("abc", "u1")

	e.backend.handle("GET /job/applications/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})
	e.backend.handle("POST /job/jobs/9/applications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "jobId": 9, "status": "submitted"})
	})
	e.backend.handle("DELETE /job/applications/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	if _, err := e.jobs.Applications(ctx); err != nil {
		t.Fatal(err)
	}

	app, err := e.jobs.Apply(ctx, job.ApplyRequest{JobID: "9"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !e.cache.IsStale(job.KeyApplications) {
		t.Error("applications should be stale after apply")
	}

	if _, err := e.jobs.Applications(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.jobs.Withdraw(ctx, app.ID); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if !e.cache.IsStale(job.KeyApplications) {
		t.Error("applications should be stale after withdraw")
	}
	if n := e.backend.count("GET /job/applications/me"); n != 2 {
		t.Errorf("application reads = %d, want 2", n)
	}
}

func TestAuth_LogoutClearsEverything(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.store.Set("abc", "u1")
	e.cache.SetData(profile.KeySkills, []profile.Skill{})
	e.backend.handle("POST /user/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := e.auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if e.auth.IsAuthenticated() || e.cache.Len() != 0 {
		t.Error("session and cache should be cleared")
	}
}

func TestHook_SubscribeSeesLoading(t *testing.T) {
	e := newEnv(t, apiclient.FactoryConfig{})
	e.backend.handle("GET /job/jobs/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "title": "Gopher"})
	})

	var seen []callstate.CallState
	unsubscribe := e.jobs.Subscribe(func(s callstate.CallState) { seen = append(seen, s) })
	defer unsubscribe()

	if _, err := e.jobs.Job(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}

	if len(seen) != 2 || !seen[0].Loading || seen[1].Loading {
		t.Errorf("seen = %+v, want loading then idle", seen)
	}
}
