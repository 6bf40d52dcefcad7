package slotlock

import (
	"context"
	"fmt"
	"time"
)

// Locker serializes booking attempts for one counsellor slot. A held lock
// means some request is between its conflict check and its commit; losers
// are told to try again rather than queued.
type Locker interface {
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

func SlotKey(counsellorID uint, start time.Time) string {
	return fmt.Sprintf("slot:%d:%s", counsellorID, start.UTC().Format(time.RFC3339))
}
