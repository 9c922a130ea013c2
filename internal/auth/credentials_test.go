package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Setenv(EnvCSRFToken, "")
	dir := t.TempDir()
	s := NewStore(dir)

	sess, err := s.Get()
	if err != nil || sess != nil {
		t.Fatalf("expected no session initially, got %+v %v", sess, err)
	}

	if err := s.Set("  tok \n", "sid\n"); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, credFileName))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 credentials, got %v", info.Mode().Perm())
	}

	sess, err = s.Get()
	if err != nil || sess == nil {
		t.Fatalf("expected a session, got %v", err)
	}
	if sess.CSRFToken != "tok" || sess.SessionID != "sid" || sess.Source != "file" {
		t.Fatalf("unexpected session %+v", sess)
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if sess, _ := s.Get(); sess != nil {
		t.Fatalf("expected no session after delete")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvCSRFToken, "envtok")
	t.Setenv(EnvSessionID, "envsid")
	s := NewStore(t.TempDir())
	if err := s.Set("filetok", "filesid"); err != nil {
		t.Fatalf("set: %v", err)
	}

	sess, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Source != "env" || sess.CSRFToken != "envtok" || sess.SessionID != "envsid" {
		t.Fatalf("expected env session, got %+v", sess)
	}
}

func TestSetRejectsEmptyToken(t *testing.T) {
	if err := NewStore(t.TempDir()).Set("  ", "sid"); err == nil {
		t.Fatalf("expected error for an empty token")
	}
}
