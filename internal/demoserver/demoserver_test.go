package demoserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAnswer(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"What is 2 + 3?", "5"},
		{"What is 10 + 0?", "10"},
		{"What is 100 + 250?", "350"},
		{"What is two + three?", "unknown"},
		{"What is 2 - 3?", "unknown"},
		{"", "unknown"},
		{"1 + 2 + 3", "unknown"},
	}

	for _, tc := range cases {
		if got := Answer(tc.question); got != tc.want {
			t.Errorf("Answer(%q): got %q want %q", tc.question, got, tc.want)
		}
	}
}

func TestSolveEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	body := bytes.NewBufferString(`{"question": "What is 4 + 5?"}`)
	resp, err := http.Post(ts.URL+"/solve", "application/json", body)
	if err != nil {
		t.Fatalf("POST /solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d want 200", resp.StatusCode)
	}
	var decoded map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["answer"] != "9" {
		t.Errorf("answer: got %q want %q", decoded["answer"], "9")
	}
}

func TestSolveRejectsBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/solve", "application/json", bytes.NewBufferString("{"))
	if err != nil {
		t.Fatalf("POST /solve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", resp.StatusCode)
	}
}
