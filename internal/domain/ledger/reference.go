package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goldbook/backend/internal/domain/shared"
)

// refDateLayout is the DDMMYY part of a reference id
const refDateLayout = "020106"

// MaxSequence is the largest per-day sequence a three digit reference allows
const MaxSequence = 999

// FormatRefID renders "<prefix><DDMMYY>/<seq:03d>"
func FormatRefID(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%s/%03d", prefix, day.Format(refDateLayout), seq)
}

// RefIDDayPrefix returns "<prefix><DDMMYY>/", the part shared by all
// references of one prefix on one day
func RefIDDayPrefix(prefix string, day time.Time) string {
	return prefix + day.Format(refDateLayout) + "/"
}

// ParseRefID splits a reference id into prefix, day and sequence
func ParseRefID(refID string) (prefix string, day time.Time, seq int, err error) {
	slash := strings.LastIndexByte(refID, '/')
	if slash < len(refDateLayout)+1 {
		return "", time.Time{}, 0, shared.InvalidInput(fmt.Sprintf("malformed reference id %q", refID))
	}
	head, tail := refID[:slash], refID[slash+1:]
	prefix = head[:len(head)-len(refDateLayout)]
	day, err = time.ParseInLocation(refDateLayout, head[len(prefix):], time.Local)
	if err != nil || prefix == "" {
		return "", time.Time{}, 0, shared.InvalidInput(fmt.Sprintf("malformed reference id %q", refID))
	}
	seq, err = strconv.Atoi(tail)
	if err != nil || seq <= 0 {
		return "", time.Time{}, 0, shared.InvalidInput(fmt.Sprintf("malformed reference id %q", refID))
	}
	return prefix, day, seq, nil
}

// SequenceSource reports reference ids already stored for a prefix
type SequenceSource interface {
	// MaxSequence returns the highest sequence stored for prefix on day, or 0
	MaxSequence(ctx context.Context, prefix string, day time.Time) (int, error)
	// RefIDExists reports whether refID is already stored
	RefIDExists(ctx context.Context, refID string) (bool, error)
}

// RefIDGenerator hands out reference ids. It keeps a per prefix and day
// counter for the life of the process so that ids handed out for drafts
// that were never saved are not handed out again.
type RefIDGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewRefIDGenerator creates a generator with empty session counters
func NewRefIDGenerator() *RefIDGenerator {
	return &RefIDGenerator{counters: make(map[string]int)}
}

// Next returns the next free reference id for prefix on day
func (g *RefIDGenerator) Next(ctx context.Context, src SequenceSource, prefix string, day time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := RefIDDayPrefix(prefix, day)
	stored, err := src.MaxSequence(ctx, prefix, day)
	if err != nil {
		return "", fmt.Errorf("failed to read last sequence for %s: %w", key, err)
	}

	next := max(stored, g.counters[key]) + 1
	for ; next <= MaxSequence; next++ {
		refID := FormatRefID(prefix, day, next)
		exists, err := src.RefIDExists(ctx, refID)
		if err != nil {
			return "", fmt.Errorf("failed to check reference %s: %w", refID, err)
		}
		if !exists {
			g.counters[key] = next
			return refID, nil
		}
	}
	return "", shared.NewDomainError(shared.CodeInvalidState,
		fmt.Sprintf("no reference numbers left for %s", key))
}
