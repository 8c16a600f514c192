package repository

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"spatialboard/internal/model"
)

// ObservationRepo persists the append-only observation log.
type ObservationRepo interface {
	// Append writes one record as a single JSON line. The record is written
	// in one call so a crash can only ever leave one partial trailing line.
	Append(record *model.Observation) error

	// All returns every parseable record in insertion order. Blank and
	// malformed lines are skipped.
	All() ([]model.Observation, error)
}

type observationRepo struct {
	path string
	mu   sync.Mutex
}

func NewObservationRepo(path string) ObservationRepo {
	return &observationRepo{path: path}
}

func (r *observationRepo) Append(record *model.Observation) error {
	// Empty collections serialize as [] rather than null.
	if record.Tags == nil {
		record.Tags = []string{}
	}
	if record.FileLinks == nil {
		record.FileLinks = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Keep non-ASCII text readable in the log file.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encode observation: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	// Encoder already appended the trailing newline; one Write, whole line.
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("append observation: %w", err)
	}
	return f.Close()
}

func (r *observationRepo) All() ([]model.Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var records []model.Observation
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec model.Observation
		if err := json.Unmarshal(line, &rec); err != nil {
			// Skip unparseable lines rather than failing the whole log.
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}
	return records, nil
}
