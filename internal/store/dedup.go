package store

// Dedup is a per-run first-wins fingerprint index. Every run starts from an
// empty index — nothing survives between invocations — so there is no TTL or
// eviction, just insertion-order precedence: the first event marked under a
// fingerprint keeps it, later duplicates are dropped by the caller.
type Dedup struct {
	seen map[string]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]struct{})}
}

// Seen reports whether a fingerprint was already marked this run.
func (d *Dedup) Seen(key string) bool {
	_, ok := d.seen[key]
	return ok
}

// Mark records a fingerprint. Marking an already-seen key is a no-op, which
// is what makes de-dup idempotent.
func (d *Dedup) Mark(key string) {
	d.seen[key] = struct{}{}
}

// Len returns how many distinct fingerprints were marked.
func (d *Dedup) Len() int { return len(d.seen) }
