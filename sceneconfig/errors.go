package sceneconfig

import "fmt"

// ConfigError reports a problem with a scene document: malformed YAML, an
// unknown type tag, or a dangling reference (material or parent name that
// doesn't resolve). It is always a user/document error, never a programmer
// error, so callers at the CLI boundary should report it and exit rather
// than treat it as a bug.
type ConfigError struct {
	Node   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("sceneconfig: %s", e.Reason)
	}
	return fmt.Sprintf("sceneconfig: node %q: %s", e.Node, e.Reason)
}
