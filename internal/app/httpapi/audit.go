package httpapi

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/R3E-Network/storefront/pkg/admin"
)

const defaultAuditCapacity = 300

// auditTrail remembers the latest registrations in a fixed circular buffer.
// Every entry is also appended to the journal when one is configured.
type auditTrail struct {
	mu      sync.Mutex
	slots   []admin.AuditEntry
	next    int
	filled  int
	journal *auditJournal
}

func newAuditTrail(capacity int, journal *auditJournal) *auditTrail {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &auditTrail{slots: make([]admin.AuditEntry, capacity), journal: journal}
}

func (t *auditTrail) append(entry admin.AuditEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.slots[t.next] = entry
	t.next = (t.next + 1) % len(t.slots)
	if t.filled < len(t.slots) {
		t.filled++
	}
	if t.journal == nil {
		return nil
	}
	return t.journal.append(entry)
}

// recent returns up to limit of the newest entries of kind, oldest first.
// An empty kind matches every entry; a limit <= 0 means no limit.
func (t *auditTrail) recent(kind string, limit int) []admin.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit <= 0 || limit > t.filled {
		limit = t.filled
	}
	out := make([]admin.AuditEntry, 0, limit)
	// Walk backwards from the newest slot.
	for i := 1; i <= t.filled && len(out) < limit; i++ {
		entry := t.slots[(t.next-i+len(t.slots))%len(t.slots)]
		if kind == "" || entry.Kind == kind {
			out = append(out, entry)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// auditJournal appends entries to a file, one JSON object per line.
type auditJournal struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

func openAuditJournal(path string) (*auditJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open audit journal %s: %w", path, err)
	}
	return &auditJournal{file: f, enc: json.NewEncoder(f)}, nil
}

func (j *auditJournal) append(entry admin.AuditEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(entry)
}

func (j *auditJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
