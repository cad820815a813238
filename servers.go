package ringhash

// ServerSource provides the set of servers a Ring should be configured
// with. Implementations must be safe for concurrent use; Ring never calls
// List concurrently with itself but a caller's refresh loop might.
type ServerSource interface {
	// List returns the current servers, in the order their names should be
	// assigned server indices.
	List() []ServerSpec
}

// ServerSpec is one entry a ServerSource hands back: enough to populate a
// ServerList entry via Ring.NewServerList / ServerList.Add.
type ServerSpec struct {
	Name      string
	Weight    uint32
	Alive     Aliveness
	Handle    uint64
	HasHandle bool
}

// StaticServers is a ServerSource with a fixed server set, useful for tests
// and simple deployments that don't need dynamic membership.
type StaticServers struct {
	specs []ServerSpec
}

// NewStaticServers creates a StaticServers from a fixed list of names, all
// with weight 1 and aliveness Alive.
func NewStaticServers(names ...string) *StaticServers {
	specs := make([]ServerSpec, len(names))
	for i, n := range names {
		specs[i] = ServerSpec{Name: n, Weight: 1, Alive: Alive}
	}
	return &StaticServers{specs: specs}
}

// NewStaticServersFromSpecs creates a StaticServers from fully specified
// entries, for callers that need custom weights or handles.
func NewStaticServersFromSpecs(specs ...ServerSpec) *StaticServers {
	return &StaticServers{specs: specs}
}

// NewStaticServersFromAddresses creates a StaticServers named after each
// "ip[:port]" address, with weight 1 and aliveness Alive. An address's
// handle is derived via ParseIPv4WithPort (defaultPort filling in an
// omitted port); addresses that don't parse as an IPv4 address get no
// handle and are only reachable by name.
func NewStaticServersFromAddresses(defaultPort uint32, addrs ...string) *StaticServers {
	specs := make([]ServerSpec, len(addrs))
	for i, addr := range addrs {
		spec := ServerSpec{Name: addr, Weight: 1, Alive: Alive}
		if handle, ok := ParseIPv4WithPort(addr, defaultPort); ok {
			spec.Handle = handle
			spec.HasHandle = true
		}
		specs[i] = spec
	}
	return &StaticServers{specs: specs}
}

// List implements ServerSource.
func (s *StaticServers) List() []ServerSpec { return s.specs }

// BuildServerList applies a ServerSource's current servers to a fresh
// ServerList sized for ring, ready to pass to Ring.ExchangeServerList.
func BuildServerList(ring *Ring, source ServerSource) (*ServerList, error) {
	list := ring.NewServerList()
	for _, spec := range source.List() {
		var result AddResult
		if spec.HasHandle {
			result = list.Add(spec.Name, spec.Weight, spec.Alive, spec.Handle)
		} else {
			result = list.AddWithoutHandle(spec.Name, spec.Weight, spec.Alive)
		}
		if result != AddOK {
			return nil, &DuplicateServerError{Name: spec.Name, Result: result}
		}
	}
	return list, nil
}
