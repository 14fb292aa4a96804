package command

import (
	"net/http"
	"strings"
	"testing"
)

func TestJobsList(t *testing.T) {
	server := newMockServer(t)
	runner := newRunner(t, server)

	server.handle("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "golang" {
			errorResponse(w, http.StatusBadRequest, "unexpected query "+q)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"id": 42, "title": "Backend Engineer", "company": "Acme", "location": "Remote", "salary": "100k"},
			},
			"total": 1, "page": 1, "pageSize": 20,
		})
	})

	res := runner.run("jobs", "list", "--query", "golang")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}
	for _, want := range []string{"Backend Engineer", "Acme", "Total: 1 jobs (page 1)"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q: %q", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "100k") {
		t.Error("salary shown without --wide")
	}

	res = runner.run("--wide", "jobs", "list", "-q", "golang")
	if !strings.Contains(res.stdout, "100k") {
		t.Errorf("wide output missing salary: %q", res.stdout)
	}
}

func TestJobsApplyAndWithdraw(t *testing.T) {
	server := newMockServer(t)
	runner := newRunner(t, server)

	server.handle("POST /jobs/42/applications", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, map[string]any{
			"id": "app-1", "jobId": 42, "jobTitle": "Backend Engineer", "status": "submitted",
		})
	})
	server.handle("GET /applications/me", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []map[string]any{
			{"id": "app-1", "jobId": 42, "status": "submitted"},
		})
	})
	server.handle("DELETE /applications/app-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := runner.run("jobs", "apply", "--cover-letter", "Hello", "42")
	if res.err != nil {
		t.Fatalf("apply error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "submitted") || !strings.Contains(res.stderr, "Application submitted") {
		t.Errorf("stdout = %q, stderr = %q", res.stdout, res.stderr)
	}

	res = runner.run("applications", "list")
	if res.err != nil || !strings.Contains(res.stdout, "app-1") {
		t.Errorf("list: err = %v, stdout = %q", res.err, res.stdout)
	}

	res = runner.run("applications", "withdraw", "app-1")
	if res.err != nil {
		t.Fatalf("withdraw error = %v", res.err)
	}
	if !strings.Contains(res.stderr, "Application withdrawn") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestJobsGet_NotFound(t *testing.T) {
	server := newMockServer(t)
	runner := newRunner(t, server)
	server.handle("GET /jobs/404", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusNotFound, "Job not found")
	})

	res := runner.run("jobs", "get", "404")
	if res.err == nil {
		t.Fatal("get succeeded, want error")
	}
	if got := ErrorMessage(res.err); got != "Job not found" {
		t.Errorf("ErrorMessage = %q", got)
	}
	if got := ExitCode(res.err); got != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", got, ExitFailure)
	}
}
