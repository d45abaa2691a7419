package callback_log

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/fatflowers/paytrack/internal/models"
)

const fileDateLayout = "2006-01-02"

// FileSink appends audit entries to one JSON-lines file per day.
type FileSink struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &FileSink{dir: dir, now: time.Now}, nil
}

func (f *FileSink) path(day time.Time) string {
	return filepath.Join(f.dir, fmt.Sprintf("mpesa_callbacks_%s.jsonl", day.Format(fileDateLayout)))
}

// Append writes the entry and syncs before returning.
func (f *FileSink) Append(entry *models.PaymentCallbackLog) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()
	fh, err := os.OpenFile(f.path(f.now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	if _, err := fh.Write(line); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write audit file: %w", err)
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("sync audit file: %w", err)
	}
	return fh.Close()
}

// Tail returns up to n of today's most recent entries, newest first. Lines
// that fail to decode are skipped.
func (f *FileSink) Tail(n int) ([]models.PaymentCallbackLog, error) {
	if n <= 0 {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path(f.now()))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	defer fh.Close()

	ring := make([]models.PaymentCallbackLog, 0, n)
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var entry models.PaymentCallbackLog
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			continue
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read audit file: %w", err)
	}

	out := make([]models.PaymentCallbackLog, len(ring))
	for i := range ring {
		out[len(ring)-1-i] = ring[i]
	}
	return out, nil
}
