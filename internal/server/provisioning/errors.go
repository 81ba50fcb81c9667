package provisioning

import (
	"fmt"

	"github.com/dmitrijs2005/freepanel/internal/server/orphans"
)

// ProvisioningFailed reports a failure in the remote or commit steps of a
// workflow. When the panel object was created but the local commit failed,
// Orphan describes what was left behind. Orphan.PanelID is empty when the
// panel answered 2xx but its response could not be read.
type ProvisioningFailed struct {
	// Op is OpRegister or OpProvision.
	Op     string
	Cause  error
	Orphan *orphans.Orphan
}

func (e *ProvisioningFailed) Error() string {
	if e.Orphan != nil && e.Orphan.PanelID == "" {
		return fmt.Sprintf("%s failed after panel accepted the %s with an unknown id: %v", e.Op, e.Orphan.Kind, e.Cause)
	}
	if e.Orphan != nil {
		return fmt.Sprintf("%s failed after panel %s %s was created: %v", e.Op, e.Orphan.Kind, e.Orphan.PanelID, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *ProvisioningFailed) Unwrap() error { return e.Cause }
