package usecase

import (
	"errors"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/assembly"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/pyserver"
)

// Terminal pipeline statuses. Each failure kind keeps a distinct,
// stable code so operators can tell a backend OOM from malformed
// output from an assembly defect.
const (
	StatusOK           = "ok"
	StatusOOM          = "oom"
	StatusHung         = "hung"
	StatusUnresponsive = "unresponsive"
	StatusSchema       = "schema"
	StatusFetch        = "fetch"
	StatusAssembly     = "assembly"
	StatusError        = "error"
)

// StatusFor maps a pipeline error to its terminal status code. Health
// escalations win over the FetchError wrapper they arrive in.
func StatusFor(err error) string {
	if err == nil {
		return StatusOK
	}

	switch {
	case errors.Is(err, pyserver.ErrOOM):
		return StatusOOM
	case errors.Is(err, pyserver.ErrHung):
		return StatusHung
	case errors.Is(err, pyserver.ErrUnresponsive):
		return StatusUnresponsive
	}

	var schemaErr *pyserver.SchemaError
	if errors.As(err, &schemaErr) {
		return StatusSchema
	}
	var fetchErr *pyserver.FetchError
	if errors.As(err, &fetchErr) {
		return StatusFetch
	}
	var assemblyErr *assembly.AssemblyError
	if errors.As(err, &assemblyErr) {
		return StatusAssembly
	}
	return StatusError
}
