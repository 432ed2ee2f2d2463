package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunCheckReportsIssues(t *testing.T) {
	var out bytes.Buffer
	code, err := runCheck([]string{"-content-dir", "testdata/content"}, &out)
	if err != nil {
		t.Fatalf("runCheck returned error: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "dirty.md") {
		t.Fatalf("expected dirty.md in output, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "anchors/resolve") {
		t.Fatalf("expected anchor rule in output, got:\n%s", out.String())
	}
}

func TestRunCheckCleanFile(t *testing.T) {
	var out bytes.Buffer
	code, err := runCheck([]string{
		"-content-dir", "testdata/content",
		"-file", "clean.md",
	}, &out)
	if err != nil {
		t.Fatalf("runCheck returned error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (output: %s)", code, out.String())
	}
	if !strings.Contains(out.String(), "no problems found") {
		t.Fatalf("expected success summary, got:\n%s", out.String())
	}
}
