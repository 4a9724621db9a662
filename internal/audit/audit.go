package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/yuzeguitarist/qrgen/internal/app"
)

type Entry struct {
	Time   string `json:"time"`
	IP     string `json:"ip"`
	Action string `json:"action"`
	Object string `json:"object,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Log appends entries as JSON lines. A nil Log or one with an empty path
// discards everything.
type Log struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Log { return &Log{path: path} }

func (l *Log) Enabled() bool { return l != nil && l.path != "" }

// Write is best effort: failures are dropped.
func (l *Log) Write(e Entry) {
	if !l.Enabled() {
		return
	}
	if e.Time == "" {
		e.Time = app.NowRFC3339()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = os.MkdirAll(filepath.Dir(l.path), 0750)
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(b, '\n'))
}
