package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLogsBaseDirDefaultsToRelativePath(t *testing.T) {
	t.Setenv(EnvLogDir, "")
	if got := LogsBaseDir(); got != filepath.Join(".interpose", "logs") {
		t.Fatalf("unexpected base logs dir: %q", got)
	}
}

func TestLogsBaseDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvLogDir, "~/interpose/logs")
	want := filepath.Join(home, "interpose", "logs")
	if got := LogsBaseDir(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLogsBaseDirSupportsBareHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvLogDir, "~")
	if got := LogsBaseDir(); got != home {
		t.Fatalf("expected %q, got %q", home, got)
	}
}

func TestLogsBaseDirForWorkdirAnchorsRelative(t *testing.T) {
	t.Setenv(EnvLogDir, "relative/logs")
	workdir := t.TempDir()
	want := filepath.Join(workdir, "relative", "logs")
	if got := LogsBaseDirForWorkdir(workdir); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLogsBaseDirForWorkdirDoesNotAnchorAbsolute(t *testing.T) {
	workdir := t.TempDir()
	abs := filepath.Join(os.TempDir(), "interpose-logs")
	t.Setenv(EnvLogDir, abs)
	if got := LogsBaseDirForWorkdir(workdir); got != abs {
		t.Fatalf("expected %q, got %q", abs, got)
	}
}

func TestResolveLogDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvLogDir, "")
	workdir := t.TempDir()

	if got, want := ResolveLogDir("", workdir), filepath.Join(workdir, ".interpose", "logs"); got != want {
		t.Fatalf("empty dir: expected %q, got %q", want, got)
	}
	if got, want := ResolveLogDir("~/l", workdir), filepath.Join(home, "l"); got != want {
		t.Fatalf("home dir: expected %q, got %q", want, got)
	}
	if got, want := ResolveLogDir("logs/x", workdir), filepath.Join(workdir, "logs", "x"); got != want {
		t.Fatalf("relative dir: expected %q, got %q", want, got)
	}
}

func TestConfigPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := UserConfigPath(), filepath.Join(home, ".interpose", "config.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	workdir := t.TempDir()
	if got, want := ProjectConfigPath(workdir), filepath.Join(workdir, ".interpose", "config.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got, want := ProjectConfigPath(""), filepath.Join(".interpose", "config.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
