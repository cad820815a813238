package ringhash

import "github.com/pior/ringhash/internal/tiredset"

// AddResult is the outcome of ServerList.Add (§4.D).
type AddResult int

const (
	// AddOK means the server was appended.
	AddOK AddResult = iota
	// AddNameExists means another item in the list already uses this name;
	// the list is left unchanged.
	AddNameExists
	// AddHandleExists means the list uses handles and another item already
	// uses this handle; the list is left unchanged.
	AddHandleExists
)

// ServerList is the ordered, indexed staging collection of ServerItems
// built by a caller before handing it to Ring.ExchangeServerList (§3, §4.E).
// Insertion order is preserved and is what continuum server indices refer
// to for the lifetime of this list's tenure as the ring's current list.
type ServerList struct {
	useHandle bool

	items    []*ServerItem
	byName   *tiredset.Set[*ServerItem, *name]
	byHandle *tiredset.Set[*ServerItem, uint64]
}

// NewServerList creates an empty server list. useHandle must match the
// Ring it will eventually be exchanged into (Ring.NewServerList is the
// usual way to get one right).
func NewServerList(useHandle bool) *ServerList {
	list := &ServerList{
		useHandle: useHandle,
		byName: tiredset.New(
			func(s *ServerItem) *name { return s.name },
			func(n *name) uint32 { return murmur3_32(n.bytes, 0) },
			nameEqual,
		),
	}
	if useHandle {
		list.byHandle = tiredset.New(
			func(s *ServerItem) uint64 { return s.handle },
			fmix64,
			func(a, b uint64) bool { return a == b },
		)
	}
	return list
}

// Len returns the number of servers currently in the list.
func (l *ServerList) Len() int { return len(l.items) }

// Items returns the list's servers in insertion order. The slice and its
// elements must not be mutated by the caller; index i is the server index
// any continuum built from this list will use for server i.
func (l *ServerList) Items() []*ServerItem { return l.items }

// Add appends a new server (§4.D). On AddNameExists or AddHandleExists the
// list is left exactly as it was before the call.
func (l *ServerList) Add(serverName string, weight uint32, alive Aliveness, handle uint64) AddResult {
	return l.addHasHandle(serverName, weight, alive, handle, l.useHandle)
}

// AddWithoutHandle appends a server with no handle, regardless of whether
// the list uses handles for other entries. Useful for lists mixing handled
// and unhandled servers during migration.
func (l *ServerList) AddWithoutHandle(serverName string, weight uint32, alive Aliveness) AddResult {
	return l.addHasHandle(serverName, weight, alive, 0, false)
}

func (l *ServerList) addHasHandle(serverName string, weight uint32, alive Aliveness, handle uint64, hasHandle bool) AddResult {
	item := newServerItem(serverName, weight, alive, handle, hasHandle)

	if existing := l.byName.Add(item); existing != item {
		return AddNameExists
	}

	if hasHandle {
		if existing := l.byHandle.Add(item); existing != item {
			l.byName.Delete(item.name)
			return AddHandleExists
		}
	}

	l.items = append(l.items, item)
	return AddOK
}

// ByName looks up a server by name.
func (l *ServerList) ByName(serverName string) (*ServerItem, bool) {
	return l.byName.Get(newName(serverName))
}

// ByHandle looks up a server by handle. Returns false if the list does not
// use handles.
func (l *ServerList) ByHandle(handle uint64) (*ServerItem, bool) {
	if !l.useHandle {
		return nil, false
	}
	return l.byHandle.Get(handle)
}

// Release drops this list's references to its servers. The C reference
// frees the list's memory explicitly (§4.D); Go relies on the GC instead,
// but a caller that received a prior list back from
// Ring.ExchangeServerList and is done with it should still call Release so
// any points a server did *not* have stolen from it (i.e. one dropped from
// the new list entirely) becomes collectible immediately rather than at the
// whim of the next GC cycle.
func (l *ServerList) Release() {
	l.items = nil
	l.byName = nil
	l.byHandle = nil
}

// fmix64 is the default handle hash (§4.A "integer mix"): a shift/multiply
// mix in the style of MurmurHash3's 64-bit finalizer, using 0x53215229 as
// its multiplier in both rounds, with the result folded down to 32 bits.
func fmix64(k uint64) uint32 {
	k ^= k >> 33
	k *= 0x53215229
	k ^= k >> 33
	k *= 0x53215229
	return uint32(k) ^ uint32(k>>33)
}
