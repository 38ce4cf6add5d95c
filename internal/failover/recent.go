package failover

// maxRecentEvents bounds the replay-protection window.
const maxRecentEvents = 512

// recentSet remembers the most recent event ids in arrival order.
// Not safe for concurrent use; the Replicator guards it.
type recentSet struct {
	limit int
	order []string
	ids   map[string]struct{}
}

func newRecentSet(limit int) *recentSet {
	return &recentSet{
		limit: limit,
		order: make([]string, 0, limit),
		ids:   make(map[string]struct{}, limit),
	}
}

func (r *recentSet) seen(id string) bool {
	_, ok := r.ids[id]
	return ok
}

// remember records id, evicting the oldest entries beyond the limit.
func (r *recentSet) remember(id string) {
	if id == "" || r.seen(id) {
		return
	}
	r.ids[id] = struct{}{}
	r.order = append(r.order, id)
	for len(r.order) > r.limit {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.ids, oldest)
	}
}

func (r *recentSet) len() int {
	return len(r.order)
}
