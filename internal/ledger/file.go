package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// FileLog stores records as line-delimited JSON, one record per line. Writes
// are serialized and fsynced before Append returns.
type FileLog struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileLog creates a JSONL log at path. The file is created lazily on the
// first append.
func NewFileLog(path string, log *slog.Logger) *FileLog {
	if log == nil {
		log = slog.Default()
	}

	return &FileLog{
		path: path,
		log:  log,
		now:  time.Now,
	}
}

// Append writes one record and syncs it to disk.
func (l *FileLog) Append(_ context.Context, record Record) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = l.now().UTC()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode trade record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trade history: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append trade record: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync trade history: %w", err)
	}

	return nil
}

// ReadAll scans the whole history file, skipping lines that fail to decode.
func (l *FileLog) ReadAll(_ context.Context) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trade history: %w", err)
	}
	defer f.Close()

	var records []Record

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			l.log.Warn("skipping malformed trade record", "error", err)
			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan trade history: %w", err)
	}

	return records, nil
}
