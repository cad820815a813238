// Package ringhash implements a weighted consistent-hashing ring: map item
// keys onto a changing set of named servers such that reconfiguring the
// server set (adding, removing, reweighting, or marking a server down)
// remaps as few items as possible.
//
// A Ring is built with New, populated by exchanging in a ServerList built
// with Ring.NewServerList, and queried with Ring.NewIterator or the
// Ring.Get convenience wrapper. Server aliveness can be pushed in bulk with
// RefreshAliveByName/RefreshAliveByHandle, or fed automatically from
// request outcomes via a HealthTracker.
package ringhash
