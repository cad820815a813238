package ringhash

import "fmt"

// DuplicateServerError is returned by BuildServerList and similar helpers
// when a ServerSource yields two entries that collide on name or handle.
type DuplicateServerError struct {
	Name   string
	Result AddResult
}

func (e *DuplicateServerError) Error() string {
	switch e.Result {
	case AddHandleExists:
		return fmt.Sprintf("ringhash: server %q: handle already used by another server", e.Name)
	default:
		return fmt.Sprintf("ringhash: server %q: name already used by another server", e.Name)
	}
}

// ConfigError reports a problem with a Config passed to New.
type ConfigError struct {
	Field   string
	Problem string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ringhash: config field %s: %s", e.Field, e.Problem)
}
