package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cms-cat/cmsstyle-go/pkg/cache"
)

// TestExampleDocuments renders every document shipped in examples/.
func TestExampleDocuments(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example documents")
	}

	runner := NewRunner(cache.NewNullCache(), nil, quiet())
	defer runner.Close()

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			res, err := runner.Execute(context.Background(), Options{Source: data, Path: path})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if len(res.Artifacts) == 0 {
				t.Error("no artifacts")
			}
			for _, w := range res.Warnings {
				t.Logf("warning: %s", w)
			}
		})
	}
}
