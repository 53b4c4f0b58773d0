package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/driver"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/shared/id"
)

type resultJSON struct {
	Worker      int                    `json:"worker"`
	Op          executor.Op            `json:"op"`
	Path        string                 `json:"path"`
	Destination string                 `json:"destination,omitempty"`
	Bytes       int                    `json:"bytes,omitempty"`
	Metadata    *executor.FileMetadata `json:"metadata,omitempty"`
	DurationMS  float64                `json:"duration_ms"`
	Status      int                    `json:"status"`
	Error       string                 `json:"error,omitempty"`
}

type reportJSON struct {
	RunID     string       `json:"run_id"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []resultJSON `json:"results"`
}

func toJSON(r driver.Result) resultJSON {
	out := resultJSON{
		Worker:      r.Plan.Worker,
		Op:          r.Plan.Op,
		Path:        r.Plan.Path,
		Destination: r.Destination,
		Bytes:       r.Bytes,
		Metadata:    r.Metadata,
		DurationMS:  float64(r.Duration) / float64(time.Millisecond),
		Status:      executor.StatusOf(r.Err),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

func writeJSON(w io.Writer, runID id.RunID, results []driver.Result) error {
	ok, failed := driver.Summary(results)
	report := reportJSON{RunID: runID.String(), Succeeded: ok, Failed: failed, Results: make([]resultJSON, len(results))}
	for i, r := range results {
		report.Results[i] = toJSON(r)
	}

	data, err := sonic.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// journalLine is a single-line form of a result for --journal
func journalLine(runID id.RunID, r driver.Result) string {
	line := fmt.Sprintf("%s run=%s worker=%d op=%s path=%q status=%d",
		time.Now().UTC().Format(time.RFC3339), runID, r.Plan.Worker, r.Plan.Op, r.Plan.Path, executor.StatusOf(r.Err))
	if r.Destination != "" {
		line += fmt.Sprintf(" destination=%q", r.Destination)
	}
	if r.Err != nil {
		line += fmt.Sprintf(" error=%q", r.Err.Error())
	}
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(line)
}
