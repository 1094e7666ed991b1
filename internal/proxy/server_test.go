package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeSolver struct {
	answer string
	err    error
	asked  string
}

func (f *fakeSolver) Name() string { return "fake" }

func (f *fakeSolver) Solve(_ context.Context, question string) (string, error) {
	f.asked = question
	return f.answer, f.err
}

func newTestServer(t *testing.T, solver Solver) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := NewServer(solver)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postSolve(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url+"/solve", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /solve: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestSolveEndpoint(t *testing.T) {
	solver := &fakeSolver{answer: "7"}
	ts := newTestServer(t, solver)

	resp, body := postSolve(t, ts.URL, `{"question": "What is 3 + 4?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d want 200", resp.StatusCode)
	}
	if body["answer"] != "7" {
		t.Errorf("answer: got %v want %q", body["answer"], "7")
	}
	if solver.asked != "What is 3 + 4?" {
		t.Errorf("question passed to solver: got %q", solver.asked)
	}
}

func TestSolveAcceptsPromptField(t *testing.T) {
	solver := &fakeSolver{answer: "ok"}
	ts := newTestServer(t, solver)

	resp, _ := postSolve(t, ts.URL, `{"prompt": "hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d want 200", resp.StatusCode)
	}
	if solver.asked != "hello" {
		t.Errorf("question: got %q want %q", solver.asked, "hello")
	}
}

func TestSolveMissingQuestion(t *testing.T) {
	ts := newTestServer(t, &fakeSolver{answer: "x"})

	resp, body := postSolve(t, ts.URL, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Error("expected error field in body")
	}
}

func TestSolveSolverError(t *testing.T) {
	ts := newTestServer(t, &fakeSolver{err: errors.New("upstream down")})

	resp, body := postSolve(t, ts.URL, `{"question": "q"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status: got %d want 500", resp.StatusCode)
	}
	if got, _ := body["error"].(string); !strings.Contains(got, "upstream down") {
		t.Errorf("error body: got %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeSolver{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["provider"] != "fake" {
		t.Errorf("provider: got %v want %q", body["provider"], "fake")
	}
}

func TestOpenAISolverAgainstFakeAPI(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		msgs, _ := req["messages"].([]any)
		if len(msgs) != 2 {
			t.Errorf("messages: got %d want 2 (system + user)", len(msgs))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "  42  "}}]}`))
	}))
	defer upstream.Close()

	solver, err := NewSolver("openai", Options{
		APIKey:  "test-key",
		BaseURL: upstream.URL,
		Model:   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	answer, err := solver.Solve(context.Background(), "What is the answer?")
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if answer != "42" {
		t.Errorf("answer: got %q want %q (trimmed)", answer, "42")
	}
}

func TestNewSolverUnknownProvider(t *testing.T) {
	_, err := NewSolver("bedrock", Options{APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "bedrock") {
		t.Errorf("error should name the provider: %v", err)
	}
}

func TestNewSolverMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewSolver("openai", Options{}); err == nil {
		t.Fatal("expected error when no API key is available")
	}
}

func TestLoadSystemPrompt(t *testing.T) {
	t.Run("missing file falls back", func(t *testing.T) {
		prompt, err := LoadSystemPrompt(filepath.Join(t.TempDir(), "nope.txt"))
		if err != nil {
			t.Fatalf("LoadSystemPrompt: %v", err)
		}
		if prompt != defaultSystemPrompt {
			t.Errorf("got %q want default prompt", prompt)
		}
	})

	t.Run("file contents trimmed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		if err := os.WriteFile(path, []byte("  answer tersely\n"), 0o644); err != nil {
			t.Fatalf("write prompt: %v", err)
		}
		prompt, err := LoadSystemPrompt(path)
		if err != nil {
			t.Fatalf("LoadSystemPrompt: %v", err)
		}
		if prompt != "answer tersely" {
			t.Errorf("got %q", prompt)
		}
	})
}
