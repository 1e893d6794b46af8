package testutil

import (
	"testing"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// AssertExists fails when path is not in the vault index.
func AssertExists(t *testing.T, v *vault.Vault, path string) {
	t.Helper()
	if !v.Exists(path) {
		t.Errorf("expected %s to exist in the vault", path)
	}
}

// AssertMissing fails when path is in the vault index.
func AssertMissing(t *testing.T, v *vault.Vault, path string) {
	t.Helper()
	if v.Exists(path) {
		t.Errorf("expected %s to be absent from the vault", path)
	}
}

// AssertNodeCount verifies the total node count, root included.
func AssertNodeCount(t *testing.T, v *vault.Vault, expected int) {
	t.Helper()
	if v.Len() != expected {
		t.Errorf("expected %d nodes, got %d", expected, v.Len())
	}
}

// AssertFolder fails unless path exists and is a directory.
func AssertFolder(t *testing.T, v *vault.Vault, path string) {
	t.Helper()
	n := v.Resolve(path)
	if n == nil {
		t.Errorf("expected folder %s to exist", path)
		return
	}
	if !n.Dir {
		t.Errorf("expected %s to be a folder, got a file", path)
	}
}
