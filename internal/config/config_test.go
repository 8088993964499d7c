package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}

func TestExecutableEnv(t *testing.T) {
	assert.Equal(t, "SRCGEN_MERLIN32", ExecutableEnv("merlin32"))
}

func TestLookupExecutable(t *testing.T) {
	t.Run("configured path", func(t *testing.T) {
		t.Setenv(ExecutableEnv("acme"), "/opt/env/acme")
		assert.Equal(t, "/opt/bin/acme", LookupExecutable("acme", "/opt/bin/acme", "acme"))
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv(ExecutableEnv("acme"), "/opt/env/acme")
		assert.Equal(t, "/opt/env/acme", LookupExecutable("acme", "", "acme"))
	})

	t.Run("search path", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("executable bit is not supported")
		}
		dir := t.TempDir()
		path := filepath.Join(dir, "fakeasm")
		assert.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
		t.Setenv("PATH", dir)
		t.Setenv(ExecutableEnv("fake"), "")

		assert.Equal(t, path, LookupExecutable("fake", "", "fakeasm"))
		assert.Equal(t, "", LookupExecutable("fake", "", "missingasm"))
	})
}
