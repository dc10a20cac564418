// Package orchestrate implements the replication orchestration core: the
// destination address load balancer, the relationship cache that drives
// create/clean reconciliation, destination-side cleanup of ended
// relationships, and the acceptance workflow for relationships awaiting
// authorization.
//
// Everything here is single-threaded and synchronous: collaborator API calls
// block, entries are processed strictly in walk order, and a failure on one
// entry never aborts the pass. None of the state survives the process.
package orchestrate

import "fmt"

// ConfigError is a fatal setup problem: an unknown network name, an address
// outside the cluster's set, an empty address pool, or a contradictory
// filter. It is raised during construction/validation, before any mutating
// API call is issued.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
