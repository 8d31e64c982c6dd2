package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditLog appends one line per upload/delete to a plain text file. Writes
// are best-effort; a broken log never fails a request.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

func NewAuditLog(path string) *AuditLog {
	if path != "" {
		os.MkdirAll(filepath.Dir(path), 0o755)
	}
	return &AuditLog{path: path}
}

func (a *AuditLog) Log(line string) {
	if a == nil || a.path == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %s\n", time.Now().UTC().Format(time.RFC3339), line)
}
