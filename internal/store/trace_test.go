package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwagner/boxpack/internal/pack"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "test-job-123"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	entries := []TraceEntry{
		{Tick: 1, Score: pack.Score{BoxCount: 12, Overlaps: 3}, Permissible: 1.0, Timestamp: time.Now()},
		{Tick: 2, Score: pack.Score{BoxCount: 10, Overlaps: 1}, Permissible: 0.95, Timestamp: time.Now()},
		{Tick: 3, Score: pack.Score{Valid: true, BoxCount: 8, BoxEntropy: 2.1, IncidentEdges: 40}, Timestamp: time.Now()},
	}
	for _, entry := range entries {
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tracePath := filepath.Join(tmpDir, "jobs", jobID, "trace.jsonl")
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatalf("Trace file not created: %s", tracePath)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	readEntries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(readEntries) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(readEntries))
	}
	for i, entry := range entries {
		got := readEntries[i]
		if got.Tick != entry.Tick {
			t.Errorf("Entry %d tick mismatch: expected %d, got %d", i, entry.Tick, got.Tick)
		}
		if !got.Score.Equal(entry.Score) {
			t.Errorf("Entry %d score mismatch: expected %v, got %v", i, entry.Score, got.Score)
		}
		if got.Permissible != entry.Permissible {
			t.Errorf("Entry %d permissible mismatch: expected %v, got %v", i, entry.Permissible, got.Permissible)
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "append-job"

	first, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := first.Write(TraceEntry{Tick: 1, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	// Reopen in append mode, as a resumed run does.
	second, err := NewTraceWriter(tmpDir, jobID, true)
	if err != nil {
		t.Fatalf("Failed to reopen writer: %v", err)
	}
	if err := second.Write(TraceEntry{Tick: 2, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}
	defer reader.Close()
	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Tick != 1 || entries[1].Tick != 2 {
		t.Fatalf("Unexpected entries after append: %+v", entries)
	}
}

func TestTraceWriter_TruncateOnFreshRun(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "truncate-job"

	first, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	for tick := 1; tick <= 5; tick++ {
		if err := first.Write(TraceEntry{Tick: tick, Timestamp: time.Now()}); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	second, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to recreate writer: %v", err)
	}
	if err := second.Write(TraceEntry{Tick: 1, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}
	defer reader.Close()
	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected truncated trace with 1 entry, got %d", len(entries))
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := NewTraceReader(tmpDir, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestTraceReader_ReadSequential(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "seq-job"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	for tick := 1; tick <= 3; tick++ {
		if err := writer.Write(TraceEntry{Tick: tick, Timestamp: time.Now()}); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}
	defer reader.Close()

	for tick := 1; tick <= 3; tick++ {
		entry, err := reader.Read()
		if err != nil {
			t.Fatalf("Read %d failed: %v", tick, err)
		}
		if entry.Tick != tick {
			t.Errorf("Expected tick %d, got %d", tick, entry.Tick)
		}
	}
	if _, err := reader.Read(); err != io.EOF {
		t.Fatalf("Expected io.EOF, got %v", err)
	}
}

func TestDeleteTrace(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "delete-trace"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := writer.Write(TraceEntry{Tick: 1, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	if err := DeleteTrace(tmpDir, jobID); err != nil {
		t.Fatalf("DeleteTrace failed: %v", err)
	}
	if _, err := os.Stat(writer.Path()); !os.IsNotExist(err) {
		t.Fatal("Trace file still exists after delete")
	}
	// Deleting a missing trace is not an error.
	if err := DeleteTrace(tmpDir, jobID); err != nil {
		t.Fatalf("DeleteTrace on missing file failed: %v", err)
	}
}
