package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allureResult is the per-test result document consumed by the allure CLI
// (schema: allure2 *-result.json).
type allureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	Name          string              `json:"name"`
	FullName      string              `json:"fullName"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []allureLabel       `json:"labels"`
	StatusDetails *allureStatusDetail `json:"statusDetails,omitempty"`
}

type allureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type allureStatusDetail struct {
	Message string `json:"message"`
	Trace   string `json:"trace,omitempty"`
}

// WriteAllureResults writes one result JSON file per test into dir so that
// `allure generate <dir>` can build a report. The allure status vocabulary
// maps failed -> failed, skipped -> skipped, passed -> passed.
func WriteAllureResults(results *Results, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create allure results directory: %w", err)
	}

	for _, t := range results.Tests {
		res := allureResult{
			UUID:      uuid.NewString(),
			HistoryID: t.FullName(),
			Name:      t.Name,
			FullName:  t.FullName(),
			Status:    string(t.Status),
			Stage:     "finished",
			Start:     t.Start.UnixMilli(),
			Stop:      t.Stop.UnixMilli(),
			Labels: []allureLabel{
				{Name: "suite", Value: t.Package},
				{Name: "framework", Value: "webcheck"},
				{Name: "language", Value: "go"},
			},
		}
		if t.Status == StatusFailed {
			res.StatusDetails = &allureStatusDetail{
				Message: "test failed",
				Trace:   strings.Join(t.Output, ""),
			}
		}

		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal allure result for %s: %w", t.FullName(), err)
		}
		path := filepath.Join(dir, res.UUID+"-result.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write allure result: %w", err)
		}
	}
	return nil
}
