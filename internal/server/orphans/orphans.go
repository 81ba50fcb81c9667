// Package orphans records panel objects that exist remotely without a local
// record. Orphans are reported for an operator to reconcile; nothing here
// deletes or retries anything.
package orphans

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/logging"
	"github.com/google/uuid"
)

// Kind names the panel object left behind.
type Kind string

const (
	KindAccount Kind = "account"
	KindServer  Kind = "server"
)

// Orphan describes one panel object whose local commit failed.
type Orphan struct {
	ID             uuid.UUID `json:"id"`
	Kind           Kind      `json:"kind"`
	PlatformUserID string    `json:"platform_user_id"`
	PanelID        string    `json:"panel_id"`
	Cause          string    `json:"cause"`
	DetectedAt     time.Time `json:"detected_at"`
}

// New builds an Orphan with a fresh id stamped at the current time.
func New(kind Kind, platformUserID, panelID string, cause error) Orphan {
	o := Orphan{
		ID:             uuid.New(),
		Kind:           kind,
		PlatformUserID: platformUserID,
		PanelID:        panelID,
		DetectedAt:     time.Now().UTC(),
	}
	if cause != nil {
		o.Cause = cause.Error()
	}
	return o
}

// Reporter hands an Orphan to whatever an operator watches.
type Reporter interface {
	Report(ctx context.Context, o Orphan) error
}

// LogReporter writes each orphan as a structured warning.
type LogReporter struct {
	log logging.Logger
}

func NewLogReporter(log logging.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(ctx context.Context, o Orphan) error {
	r.log.Warn(ctx, "orphaned panel object",
		"orphan_id", o.ID.String(),
		"kind", string(o.Kind),
		"platform_user_id", o.PlatformUserID,
		"panel_id", o.PanelID,
		"cause", o.Cause,
	)
	return nil
}

// Multi reports to every reporter, even after one fails.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, o Orphan) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
