package dispatch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/simtest/internal/errors"
)

// writeFiles creates empty files under dir, making parent directories.
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("// test\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"b.test.ts",
		"a.test.ts",
		"helper.ts",
		"sub/c.test.ts",
		"sub/deeper/d.test.ts",
		".hidden/e.test.ts",
		"node_modules/pkg/f.test.ts",
		"notes.test.ts.bak",
	)

	got, err := Discover(dir, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.test.ts"),
		filepath.Join(dir, "b.test.ts"),
		filepath.Join(dir, "sub", "c.test.ts"),
		filepath.Join(dir, "sub", "deeper", "d.test.ts"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscover_Patterns(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.test.ts", "b.sim.ts", "c.ts")

	got, err := Discover(dir, []string{"*.sim.ts", "*.test.ts"})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.test.ts"), filepath.Join(dir, "b.sim.ts")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscover_Empty(t *testing.T) {
	got, err := Discover(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Discover() = %v, want none", got)
	}
}

func TestDiscover_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "file.txt")

	tests := []struct {
		name     string
		dir      string
		patterns []string
		wantMsg  string
	}{
		{"missing dir", filepath.Join(dir, "nope"), nil, "does not exist"},
		{"file instead of dir", filepath.Join(dir, "file.txt"), nil, "is not a directory"},
		{"bad pattern", dir, []string{"[a-"}, "invalid test pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discover(tt.dir, tt.patterns)
			if err == nil {
				t.Fatal("Discover() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if code := errors.GetExitCode(err); code != errors.ExitConfigError {
				t.Errorf("GetExitCode() = %d, want %d", code, errors.ExitConfigError)
			}
		})
	}
}

func TestDiscover_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "z.test.ts", "m/a.test.ts", "a.test.ts", "m.test.ts")

	first, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Discover(dir, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Discover() not deterministic: %v vs %v", first, again)
		}
	}
}
