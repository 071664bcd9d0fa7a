package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateHashIgnoresInfraAndGit(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("cmd/api/cmd.go", "package main")
	before, err := GenerateHash(root)
	if err != nil {
		t.Fatalf("GenerateHash: %v", err)
	}

	write("infra/Pulumi.dev.yaml", "config: {}")
	write(".git/HEAD", "ref: refs/heads/main")
	same, _ := GenerateHash(root)
	if same != before {
		t.Fatalf("hash changed for ignored directories")
	}

	write("internal/store/dad.go", "package store")
	after, _ := GenerateHash(root)
	if after == before {
		t.Fatalf("hash did not change for a source file")
	}
}
