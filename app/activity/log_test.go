package activity

import (
	"fmt"
	"testing"
	"time"
)

func TestLogNewestFirst(t *testing.T) {
	log := NewLog(15)

	log.Record("first", SeverityInfo)
	log.Record("second", SeveritySuccess)
	log.Record("third", SeverityError)

	entries := log.List()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	if entries[0].Message != "third" {
		t.Errorf("Expected newest entry first, got '%s'", entries[0].Message)
	}
	if entries[2].Message != "first" {
		t.Errorf("Expected oldest entry last, got '%s'", entries[2].Message)
	}
	if entries[0].Severity != SeverityError {
		t.Errorf("Unexpected severity: %s", entries[0].Severity)
	}
}

func TestLogTruncatesAtCapacity(t *testing.T) {
	log := NewLog(3)

	for i := 1; i <= 5; i++ {
		log.Record(fmt.Sprintf("run %d", i), SeverityInfo)
	}

	entries := log.List()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "run 5" {
		t.Errorf("Expected 'run 5' first, got '%s'", entries[0].Message)
	}
	if entries[2].Message != "run 3" {
		t.Errorf("Expected 'run 3' last, got '%s'", entries[2].Message)
	}
}

func TestLogNoDeduplication(t *testing.T) {
	log := NewLog(15)

	log.Record("same message", SeverityInfo)
	log.Record("same message", SeverityInfo)

	if log.Len() != 2 {
		t.Errorf("Expected 2 entries, duplicates must be kept, got %d", log.Len())
	}
}

func TestLogClear(t *testing.T) {
	log := NewLog(15)
	log.Record("something", SeverityInfo)

	log.Clear()

	if log.Len() != 0 {
		t.Errorf("Expected empty log after clear, got %d entries", log.Len())
	}
}

func TestLogTimestamps(t *testing.T) {
	log := NewLog(15)
	fixed := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return fixed }

	log.Record("stamped", SeverityWarning)

	entries := log.List()
	if !entries[0].Timestamp.Equal(fixed) {
		t.Errorf("Expected timestamp %v, got %v", fixed, entries[0].Timestamp)
	}
}

func TestLogDefaultCapacity(t *testing.T) {
	log := NewLog(0)

	for i := 0; i < 40; i++ {
		log.Record("entry", SeverityInfo)
	}

	if log.Len() != DefaultCapacity {
		t.Errorf("Expected default capacity %d, got %d", DefaultCapacity, log.Len())
	}
}
