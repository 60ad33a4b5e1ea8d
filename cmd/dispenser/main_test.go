package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRootCommand_ErrorNotPrinted(t *testing.T) {
	root := newRootCommand(context.Background())

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs([]string{"simulate", "--config", "/nonexistent/dispenser.yaml"})

	if err := root.Execute(); err == nil {
		t.Fatal("Execute() with missing config should fail")
	}
	if stderr.Len() != 0 {
		t.Errorf("cobra printed the error itself: %q", stderr.String())
	}
	if strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("usage printed on runtime error: %q", stdout.String())
	}
}
