package cli

import (
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	root := rootCommand()

	want := map[string]bool{
		"render":     false,
		"replay":     false,
		"edit":       false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if root.Use != "ideagraph" {
		t.Errorf("root use = %q", root.Use)
	}
	if f := root.PersistentFlags().Lookup("verbose"); f == nil {
		t.Error("verbose flag missing")
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != "/tmp/xdg-test/ideagraph" {
		t.Errorf("cacheDir = %q", dir)
	}
}
