package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"netdesign/pkg/extensions"
)

// AuditRecord is one line of the audit log
type AuditRecord struct {
	Time time.Time `json:"time"`
	extensions.HookData
}

// AuditHook writes every hook invocation to w as a JSON line. Every call
// writes to w, so a writer that recovers from an error is used again.
func AuditHook(w io.Writer, clock func() time.Time) extensions.Hook {
	if clock == nil {
		clock = time.Now
	}
	var mu sync.Mutex

	return func(_ context.Context, data interface{}) error {
		hd, ok := data.(extensions.HookData)
		if !ok {
			return fmt.Errorf("unexpected hook data %T", data)
		}
		line, err := json.Marshal(AuditRecord{Time: clock().UTC(), HookData: hd})
		if err != nil {
			return fmt.Errorf("encode audit record: %w", err)
		}
		mu.Lock()
		defer mu.Unlock()
		_, err = w.Write(append(line, '\n'))
		return err
	}
}

// RegisterAudit records commits, navigations and resets to w. A failing
// writer is suspended by a circuit breaker instead of failing every step.
func RegisterAudit(hooks *extensions.HookManager, w io.Writer, logger *zap.Logger) {
	hook := extensions.Guard(AuditHook(w, nil), extensions.DefaultBreakerConfig("audit"), logger)
	for _, point := range []extensions.HookPoint{
		extensions.HookAfterSnapshotCommit,
		extensions.HookAfterNavigation,
		extensions.HookAfterTimelineReset,
	} {
		hooks.Register(point, hook)
	}
}
