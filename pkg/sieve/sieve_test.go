package sieve

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func snippet(i int) string {
	return fmt.Sprintf("def scale_%d(values):\n    factor = %q\n    return [v * len(factor) for v in values]\n", i, strings.Repeat("f", i+1))
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero contamination", WithContamination(0)},
		{"contamination above half", WithContamination(0.6)},
		{"no neighbours", WithNeighbors(0)},
		{"no trees", WithTrees(0, 1)},
		{"negative length", WithMinContentLength(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opt); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestCurate(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	docs := []map[string]any{
		{"content": "def broken(:\n    pass\n", "source": "gh"},
		{"content": ""},
	}
	for i := 0; i < 30; i++ {
		docs = append(docs, map[string]any{"content": snippet(i), "source": "gh"})
	}

	res, err := s.Curate(docs)
	if err != nil {
		t.Fatalf("Curate() error: %v", err)
	}

	if res.Counts["excluded-empty"] != 1 {
		t.Errorf("excluded-empty = %d, want 1", res.Counts["excluded-empty"])
	}
	if res.Counts["rule-bad"] != 1 {
		t.Errorf("rule-bad = %d, want 1", res.Counts["rule-bad"])
	}
	if len(res.FinalGood) != res.Counts["final-good"] {
		t.Errorf("FinalGood has %d records, counts say %d", len(res.FinalGood), res.Counts["final-good"])
	}
	if got := len(res.FinalGood) + len(res.Bad); got != 31 {
		t.Errorf("good+bad = %d, want 31", got)
	}

	first := res.Bad[0]
	if first.Partition != "rule-bad" || !first.Metrics.IsSyntaxError || first.Label != 0 {
		t.Errorf("first bad record = %+v, want the syntax error", first)
	}
	if first.OriginalLength != 22 {
		t.Errorf("OriginalLength = %d, want 22", first.OriginalLength)
	}
	if first.Meta["source"] != "gh" {
		t.Errorf("meta not carried: %v", first.Meta)
	}
	for _, r := range res.FinalGood {
		if r.Partition != "final-good" || r.Label != 1 || r.ID == "" {
			t.Errorf("unexpected final-good record %+v", r)
		}
	}
}

func TestCurateMissingContent(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	_, err = s.Curate([]map[string]any{{"code": "x = 1"}})
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("err = %v, want ErrMissingContent", err)
	}
}

func TestAnalyze(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	m := s.Analyze("import os\n\ndef add(a, b):\n    \"\"\"Sum.\"\"\"\n    return a + b\n")
	if m.IsSyntaxError {
		t.Fatal("valid code flagged as syntax error")
	}
	if m.CyclomaticComplexity != 1 {
		t.Errorf("complexity = %v, want 1", m.CyclomaticComplexity)
	}
	if len(m.FunctionDefinitions) != 1 || m.FunctionDefinitions[0].Name != "add" || !m.FunctionDefinitions[0].HasDocstring {
		t.Errorf("functions = %+v", m.FunctionDefinitions)
	}
	if len(m.Imports) != 1 || m.Imports[0] != "os" {
		t.Errorf("imports = %v", m.Imports)
	}
}

func TestConcurrentUse(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if m := s.Analyze(snippet(i)); m.IsSyntaxError {
				t.Errorf("snippet %d flagged as syntax error", i)
			}
			if _, err := s.Curate([]map[string]any{{"content": snippet(i)}}); err != nil {
				t.Errorf("Curate error: %v", err)
			}
		}(i)
	}
	wg.Wait()
}
