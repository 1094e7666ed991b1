// Package dataset loads line-delimited benchmark cases. Each line of a
// dataset file is one JSON object with id, input and reference fields.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Case is one (input, reference) test unit. Cases are created once at
// load and never mutated.
type Case struct {
	ID        string `json:"id"`
	Input     any    `json:"input"`
	Reference any    `json:"reference"`
}

// Error is a fatal dataset problem. Loading either yields every case or
// fails with an Error; no partial case list is ever returned.
type Error struct {
	Line int    // 1-based line number, 0 when not line-specific
	Raw  string // offending raw line, if any
	Msg  string
}

// Error formats the dataset error with its line context.
func (e *Error) Error() string {
	if e == nil {
		return "dataset: error"
	}
	if e.Line > 0 {
		if e.Raw != "" {
			return fmt.Sprintf("dataset: line %d: %s: %s", e.Line, e.Msg, truncate(e.Raw, 120))
		}
		return fmt.Sprintf("dataset: line %d: %s", e.Line, e.Msg)
	}
	return "dataset: " + e.Msg
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Source is a restartable case sequence backed by a JSONL file. Every
// Load re-reads the file from the start.
type Source struct {
	Path string
}

// Load reads and validates all cases, preserving file order.
func (s *Source) Load(ctx context.Context) ([]Case, error) {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return nil, &Error{Msg: "empty dataset path"}
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &Error{Msg: fmt.Sprintf("open %q: %v", s.Path, err)}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var cases []Case
	seen := make(map[string]int)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var c rawCase
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, &Error{Line: lineNum, Raw: string(line), Msg: fmt.Sprintf("invalid JSON: %v", err)}
		}

		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, &Error{Line: lineNum, Raw: string(line), Msg: "missing id"}
		}
		if c.Input == nil {
			return nil, &Error{Line: lineNum, Raw: string(line), Msg: fmt.Sprintf("case %q: missing input", id)}
		}
		if c.Reference == nil {
			return nil, &Error{Line: lineNum, Raw: string(line), Msg: fmt.Sprintf("case %q: missing reference", id)}
		}
		if prev, dup := seen[id]; dup {
			return nil, &Error{Line: lineNum, Msg: fmt.Sprintf("duplicate case id %q (first seen on line %d)", id, prev)}
		}
		seen[id] = lineNum

		var input, reference any
		if err := json.Unmarshal(*c.Input, &input); err != nil {
			return nil, &Error{Line: lineNum, Raw: string(line), Msg: fmt.Sprintf("case %q: invalid input: %v", id, err)}
		}
		if err := json.Unmarshal(*c.Reference, &reference); err != nil {
			return nil, &Error{Line: lineNum, Raw: string(line), Msg: fmt.Sprintf("case %q: invalid reference: %v", id, err)}
		}

		cases = append(cases, Case{ID: id, Input: input, Reference: reference})
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("read %q: %v", s.Path, err)}
	}

	if len(cases) == 0 {
		return nil, &Error{Msg: fmt.Sprintf("dataset %q contains no cases", s.Path)}
	}
	return cases, nil
}

// rawCase defers input/reference decoding so missing fields are
// distinguishable from explicit nulls.
type rawCase struct {
	ID        string           `json:"id"`
	Input     *json.RawMessage `json:"input"`
	Reference *json.RawMessage `json:"reference"`
}

// IsFatal reports whether err is a dataset loading failure.
func IsFatal(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
