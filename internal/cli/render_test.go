package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cms-cat/cmsstyle-go/pkg/errors"
)

const demoTOML = `
name = "demo"

[canvas]
x = [0, 4]
x_title = "m [GeV]"
y_title = "Events"

[[histograms]]
name = "data"
label = "Data"
contents = [1, 3, 2, 1]
option = "E1 P"
legend = "pe"
`

func writeDoc(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"  ", nil},
		{"svg", []string{"svg"}},
		{"svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"svg, jpg ,", []string{"svg", "jpg"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
			t.Errorf("parseFormats(%q) (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		output  string
		want    map[string]string
	}{
		{"next to input", []string{"pdf", "svg"}, "", map[string]string{"pdf": "plots/mass.pdf", "svg": "plots/mass.svg"}},
		{"exact file", []string{"jpeg"}, "out/fig.jpg", map[string]string{"jpeg": "out/fig.jpg"}},
		{"extension of another format", []string{"svg"}, "out/fig.pdf", map[string]string{"svg": "out/fig.svg"}},
		{"base path", []string{"png", "svg"}, "out/fig", map[string]string{"png": "out/fig.png", "svg": "out/fig.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.output, "plots/mass.toml")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "mass.toml")
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "pdf": []byte("%PDF")}

	written, err := writeArtifacts(artifacts, filepath.Join(dir, "out", "fig"), input)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{filepath.Join(dir, "out", "fig.pdf"), filepath.Join(dir, "out", "fig.svg")}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Errorf("written (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(want[1])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg = %q, %v", data, err)
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out := captureStdout(t)
	doc := writeDoc(t, "demo.toml", demoTOML)

	if err := runCLI(t, "render", "-f", "svg,png", doc); err != nil {
		t.Fatalf("render: %v", err)
	}
	base := strings.TrimSuffix(doc, ".toml")
	svg, err := os.ReadFile(base + ".svg")
	if err != nil || !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("svg output: %v", err)
	}
	png, err := os.ReadFile(base + ".png")
	if err != nil || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("png output: %v", err)
	}
	if !strings.Contains(out.String(), "Rendered "+doc) || !strings.Contains(out.String(), iconFresh) {
		t.Errorf("first run output = %q", out.String())
	}

	out.Reset()
	if err := runCLI(t, "render", "-f", "svg,png", doc); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(out.String(), iconCached) {
		t.Errorf("second run should come from the cache: %q", out.String())
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	doc := writeDoc(t, "demo.toml", demoTOML)
	captureStdout(t)
	target := filepath.Join(t.TempDir(), "fig.jpg")

	if err := runCLI(t, "render", "--no-cache", "-o", target, doc); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil || !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		t.Errorf("jpeg output: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	captureStdout(t)
	doc := writeDoc(t, "demo.toml", demoTOML)
	bad := writeDoc(t, "bad.toml", "name = \"bad\"\n[canvas]\nkind = \"triple\"\n")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"render", "--no-cache", "-f", "gif", doc}, errors.ErrCodeInvalidFormat},
		{"missing file", []string{"render", "--no-cache", filepath.Join(t.TempDir(), "nope.toml")}, errors.ErrCodeFileNotFound},
		{"output with many inputs", []string{"render", "--no-cache", "-o", "x.svg", doc, doc}, errors.ErrCodeInvalidInput},
		{"invalid document", []string{"render", "--no-cache", bad}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
