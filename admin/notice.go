package admin

import (
	"sync"
	"time"
)

const (
	SavedNotice      = "Saved"
	FailedSaveNotice = "Failed to save"

	savedNoticeTTL  = 2 * time.Second
	failedNoticeTTL = 3 * time.Second
)

// notice is a short inline message that disappears on its own.
type notice struct {
	mu      sync.Mutex
	now     func() time.Time
	text    string
	expires time.Time
}

func (n *notice) set(text string, ttl time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text = text
	n.expires = n.now().Add(ttl)
}

func (n *notice) saved()  { n.set(SavedNotice, savedNoticeTTL) }
func (n *notice) failed() { n.set(FailedSaveNotice, failedNoticeTTL) }

func (n *notice) get() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.text == "" || !n.now().Before(n.expires) {
		return ""
	}
	return n.text
}
