// Package contract executes the HTTP request/response contract for one
// (system, case) pair and extracts the predicted value. All failures
// are classified per case; nothing here aborts a run.
package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/justinsiek/yardstick-engine/internal/dataset"
	"github.com/justinsiek/yardstick-engine/internal/jsonpath"
	"github.com/justinsiek/yardstick-engine/internal/spec"
)

// DefaultTimeout bounds a single system call unless the system config
// overrides it.
const DefaultTimeout = 30 * time.Second

// Per-case failure kinds.
const (
	KindNetworkError    = "network_error"
	KindHTTPError       = "http_error"
	KindParseError      = "parse_error"
	KindExtractionError = "extraction_error"
)

// System configures one system under test.
type System struct {
	Name     string            `yaml:"name" json:"name"`
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	Headers  map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Timeout  time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Failure classifies a per-case execution failure.
type Failure struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"http_status,omitempty"`
}

// Executor issues one HTTP call per case according to a contract. The
// path expressions are compiled once at construction; evaluation is
// pure, so identical inputs classify identically on every run.
type Executor struct {
	method     string
	bodyPath   *jsonpath.Path
	outputPath *jsonpath.Path

	client  *http.Client
	timeout time.Duration
}

// NewExecutor compiles a contract into an executor. The contract must
// already have passed spec validation.
func NewExecutor(c *spec.Contract, client *http.Client, timeout time.Duration) (*Executor, error) {
	if c == nil {
		return nil, errors.New("contract: nil contract")
	}

	bodyPath, err := jsonpath.Compile(c.Request.BodyJSONPath)
	if err != nil {
		return nil, fmt.Errorf("contract: request.body_json_path: %w", err)
	}
	outputPath, err := jsonpath.Compile(c.Response.OutputJSONPath)
	if err != nil {
		return nil, fmt.Errorf("contract: response.output_json_path: %w", err)
	}

	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Executor{
		method:     strings.ToUpper(strings.TrimSpace(c.Request.Method)),
		bodyPath:   bodyPath,
		outputPath: outputPath,
		client:     client,
		timeout:    timeout,
	}, nil
}

// Execute runs one case against one system and returns the predicted
// value or a classified failure. It never returns both.
func (e *Executor) Execute(ctx context.Context, sys System, cs dataset.Case) (any, *Failure) {
	body, err := e.bodyPath.Eval(cs.Input)
	if err != nil {
		return nil, &Failure{
			Kind:    KindExtractionError,
			Message: fmt.Sprintf("request body: %v", err),
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Failure{
			Kind:    KindExtractionError,
			Message: fmt.Sprintf("encode request body: %v", err),
		}
	}

	timeout := sys.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, e.method, sys.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Failure{
			Kind:    KindNetworkError,
			Message: fmt.Sprintf("build request for %s: %v", sys.Endpoint, err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range sys.Headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		msg := fmt.Sprintf("request to %s failed: %v", sys.Endpoint, err)
		if errors.Is(err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("request to %s timed out after %s", sys.Endpoint, timeout)
		}
		return nil, &Failure{Kind: KindNetworkError, Message: msg}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{
			Kind:    KindNetworkError,
			Message: fmt.Sprintf("read response from %s: %v", sys.Endpoint, err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Failure{
			Kind:       KindHTTPError,
			Message:    fmt.Sprintf("request to %s returned status %d", sys.Endpoint, resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &Failure{
			Kind:    KindParseError,
			Message: fmt.Sprintf("response from %s is not valid JSON: %v", sys.Endpoint, err),
		}
	}

	predicted, err := e.outputPath.Eval(decoded)
	if err != nil {
		return nil, &Failure{
			Kind:    KindExtractionError,
			Message: fmt.Sprintf("output path %s: %v", e.outputPath, err),
		}
	}
	return predicted, nil
}

// ParseSystemFlag parses a repeatable "name=url" flag value.
func ParseSystemFlag(s string) (System, error) {
	name, url, ok := strings.Cut(s, "=")
	if !ok {
		return System{}, fmt.Errorf("contract: invalid system %q (expected name=url)", s)
	}
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" {
		return System{}, fmt.Errorf("contract: system %q: empty name", s)
	}
	if url == "" {
		return System{}, fmt.Errorf("contract: system %q: empty url", s)
	}
	return System{Name: name, Endpoint: url}, nil
}
