package testdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(`{"username":"standard_user","locked":false}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var data struct {
		Username string `json:"username"`
		Locked   bool   `json:"locked"`
	}
	if err := LoadJSON(path, &data); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if data.Username != "standard_user" || data.Locked {
		t.Errorf("unexpected data: %+v", data)
	}

	if err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"), &data); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.csv")
	csvData := "username,password,expect\nstandard_user,secret_sauce,ok\nlocked_out_user,secret_sauce,error\n"
	if err := os.WriteFile(path, []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["username"] != "standard_user" || records[1]["expect"] != "error" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestRandomString_LengthAndUniqueness(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		length := rapid.IntRange(1, 64).Draw(rt, "length")
		a := RandomString(length)
		if len(a) != length {
			rt.Fatalf("RandomString(%d) has length %d", length, len(a))
		}
	})

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := RandomString(16)
		if seen[s] {
			t.Fatalf("duplicate random string %q", s)
		}
		seen[s] = true
	}
}

func TestRandomEmail(t *testing.T) {
	t.Parallel()

	email := RandomEmail("login")
	if !strings.HasPrefix(email, "login-") || !strings.HasSuffix(email, "@example.com") {
		t.Errorf("unexpected email format: %q", email)
	}
	if email == RandomEmail("login") {
		t.Error("emails should be unique")
	}
}

func TestRandomUser(t *testing.T) {
	t.Parallel()

	u := RandomUser()
	if u.Username == "" || u.Email == "" || u.Password == "" {
		t.Errorf("incomplete user: %+v", u)
	}
	if u == RandomUser() {
		t.Error("users should be unique")
	}
}

func TestCleanOldFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "old.png")
	fresh := filepath.Join(dir, "new.png")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-14 * 24 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	if err := CleanOldFiles(dir, 7*24*time.Hour); err != nil {
		t.Fatalf("CleanOldFiles failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file should be kept")
	}

	if err := CleanOldFiles(filepath.Join(dir, "missing"), time.Hour); err != nil {
		t.Errorf("missing directory should not be an error: %v", err)
	}
}
