package service

import (
	"sync"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/pkg/idx"
)

const defaultNotifierCapacity = 50

// Notifier buffers user facing outcome messages until a client drains them.
// The oldest entries are dropped once the buffer is full.
type Notifier struct {
	mu       sync.Mutex
	items    []domain.Notification
	capacity int
	now      func() time.Time
}

func NewNotifier(capacity int) *Notifier {
	if capacity <= 0 {
		capacity = defaultNotifierCapacity
	}
	return &Notifier{capacity: capacity, now: time.Now}
}

func (n *Notifier) Success(msg string) { n.push(domain.NotifySuccess, msg) }
func (n *Notifier) Error(msg string)   { n.push(domain.NotifyError, msg) }
func (n *Notifier) Info(msg string)    { n.push(domain.NotifyInfo, msg) }

func (n *Notifier) push(level domain.NotificationLevel, msg string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, domain.Notification{
		ID:        idx.New().String(),
		Level:     level,
		Message:   msg,
		CreatedAt: n.now().UTC(),
	})
	if over := len(n.items) - n.capacity; over > 0 {
		n.items = n.items[over:]
	}
}

// Drain returns the buffered notifications oldest first and empties the
// buffer.
func (n *Notifier) Drain() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.items
	n.items = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}
