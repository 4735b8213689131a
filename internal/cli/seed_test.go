package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/inventory/pkg/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvAppEnv, config.AppEnvDev)
	t.Setenv(config.EnvStoreBackend, config.StoreBackendMemory)
	t.Setenv(config.EnvDBDSN, "")
	t.Setenv(config.EnvMongoURI, "")
}

func TestSeedDefaultFixture(t *testing.T) {
	setMemoryEnv(t)

	out, err := runCLI(t, "seed")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "Added 2 categories and 3 items") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSeedFromFile(t *testing.T) {
	setMemoryEnv(t)
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	fixture := "categories:\n  - key: hats\n    name: Hats\nitems:\n  - name: Fedora\n    price: \"10\"\n    stock: \"2\"\n    categories: [hats]\n"
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := runCLI(t, "seed", "--file", path)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "Added 1 categories and 1 items") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSeedFailsWithoutConfig(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv(config.EnvAppEnv, "")
	if err := os.Unsetenv(config.EnvAppEnv); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if _, err := runCLI(t, "seed"); err == nil {
		t.Fatal("expected missing app env to fail")
	}
}

func TestSeedRejectsArguments(t *testing.T) {
	setMemoryEnv(t)
	if _, err := runCLI(t, "seed", "extra"); err == nil {
		t.Fatal("expected positional arguments to be rejected")
	}
}
