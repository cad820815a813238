package ringhash

// AliveByName is a batch of updated-aliveness values keyed by server name,
// built up by a caller and passed to Ring.RefreshAliveByName (§4.H). Servers
// not present in the batch are left at whatever updated-aliveness they
// already had.
type AliveByName struct {
	entries map[string]Aliveness
}

// NewAliveByName creates an empty batch.
func NewAliveByName() *AliveByName {
	return &AliveByName{entries: make(map[string]Aliveness)}
}

// Add records serverName's new updated-aliveness, overwriting any prior
// value for the same name within this batch.
func (b *AliveByName) Add(serverName string, alive Aliveness) {
	b.entries[serverName] = alive
}

// Len returns the number of distinct names recorded.
func (b *AliveByName) Len() int { return len(b.entries) }

// AliveByHandle is the handle-keyed counterpart of AliveByName, for rings
// configured with UseHandle.
type AliveByHandle struct {
	entries map[uint64]Aliveness
}

// NewAliveByHandle creates an empty batch for updating ring's servers by
// handle. It reports ok=false without creating a batch if ring isn't
// configured to index by handle, since such a batch could never be applied.
func (r *Ring) NewAliveByHandle() (batch *AliveByHandle, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.config.UseHandle.enabled() {
		return nil, false
	}
	return &AliveByHandle{entries: make(map[uint64]Aliveness)}, true
}

// Add records handle's new updated-aliveness, overwriting any prior value
// for the same handle within this batch.
func (b *AliveByHandle) Add(handle uint64, alive Aliveness) {
	b.entries[handle] = alive
}

// Len returns the number of distinct handles recorded.
func (b *AliveByHandle) Len() int { return len(b.entries) }
