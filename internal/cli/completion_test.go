package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestCompleteOutputFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg", "png", "jpeg", "pdf", "eps"}},
		{"p", []string{"png", "pdf"}},
		{"svg,p", []string{"svg,png", "svg,pdf"}},
		{"svg,png,", []string{"svg,png,jpeg", "svg,png,pdf", "svg,png,eps"}},
		{"gif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, dir := completeOutputFormats(nil, nil, tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("completions (-want +got):\n%s", diff)
			}
			if dir&cobra.ShellCompDirectiveNoFileComp == 0 {
				t.Error("formats should not fall back to file completion")
			}
		})
	}
}

func TestCompleteDocuments(t *testing.T) {
	exts, dir := completeDocuments(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("directive = %v, want FilterFileExt", dir)
	}
	if diff := cmp.Diff([]string{"toml", "yaml", "yml", "json"}, exts); diff != "" {
		t.Errorf("extensions (-want +got):\n%s", diff)
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetArgs([]string{"completion", "bash"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), "cmsstyle") {
		t.Error("bash script should name the cmsstyle binary")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("unknown shell should fail")
	}
}
