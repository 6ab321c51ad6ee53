// Package testdata provides test-data loading and generation helpers shared
// by the browser test suites.
package testdata

import (
	crand "crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LoadJSON decodes a JSON test-data file into out.
func LoadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load test data %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse test data %s: %w", path, err)
	}
	return nil
}

// LoadCSV reads a CSV test-data file with a header row and returns one map
// per record, keyed by column name.
func LoadCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load test data %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse test data %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// RandomString returns a random hex string of the given length.
func RandomString(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := crand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to generate random string: %v", err))
	}
	return hex.EncodeToString(buf)[:length]
}

// RandomEmail returns a unique email address for test isolation.
func RandomEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, RandomString(16))
}

// User is generated account data for registration-style tests.
type User struct {
	Username string
	Email    string
	Password string
}

// RandomUser generates a unique test user.
func RandomUser() User {
	suffix := RandomString(12)
	return User{
		Username: "user_" + suffix,
		Email:    RandomEmail("user"),
		Password: "Pass-" + RandomString(12) + "!",
	}
}

// CleanOldFiles removes regular files in dir older than maxAge. Missing
// directories are not an error; artifact directories appear lazily.
func CleanOldFiles(dir string, maxAge time.Duration) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("remove stale file %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}
