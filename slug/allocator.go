package slug

import (
	"fmt"

	"github.com/google/uuid"
)

// maxAttempts bounds the counter-suffix search. The store's unique index
// remains the true arbiter; past this bound we fall back to an opaque
// suffix instead of scanning forever under adversarial input.
const maxAttempts = 1000

// Store is the slice of the record store the allocator needs: whether any
// post other than excludeID currently owns the candidate slug.
type Store interface {
	SlugTaken(candidate string, excludeID *uuid.UUID) (bool, error)
}

// Allocator resolves a base slug to one not currently held by any post.
type Allocator struct {
	store Store
}

func NewAllocator(store Store) Allocator {
	return Allocator{store: store}
}

// Allocate returns baseSlug unchanged if free, otherwise baseSlug-1,
// baseSlug-2, ... until a free candidate is found. excludeID, when
// non-nil, lets a post keep its own slug during an update.
//
// The check here is an optimization, not a guarantee: two concurrent
// allocations can both pass and race to the unique index, where the
// loser surfaces as a conflict.
func (a Allocator) Allocate(baseSlug string, excludeID *uuid.UUID) (string, error) {
	candidate := baseSlug
	for counter := 1; counter <= maxAttempts; counter++ {
		taken, err := a.store.SlugTaken(candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", baseSlug, counter)
	}

	// Pathological collision density. An opaque suffix is effectively
	// guaranteed free; the unique index still backstops it.
	return fmt.Sprintf("%s-%s", baseSlug, uuid.NewString()[:8]), nil
}
