package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Result is the tagged response every bridge method returns. Success
// carries Data; failure carries Error. Repository adapters unwrap this
// into Go errors at their boundary.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Bridge is the call surface the desktop shell exposes to the UI
// process. Methods are namespaced by entity ("inventory.list",
// "pullsheets.addItem"). Payload and Data cross the boundary as JSON.
type Bridge interface {
	Call(ctx context.Context, method string, payload []byte) Result
}

// Ok builds a success Result carrying v as JSON.
func Ok(v any) Result {
	data, err := json.Marshal(v)
	if err != nil {
		return Errf("marshal response: %v", err)
	}
	return Result{Success: true, Data: data}
}

// Errf builds a failure Result.
func Errf(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Request payloads shared by the adapter and backend sides of the bridge.
type (
	// IDArgs targets a single entity.
	IDArgs struct {
		ID string `json:"id"`
	}

	// TextArgs carries a single search/filter term.
	TextArgs struct {
		Value string `json:"value"`
	}

	// QtyArgs carries a quantity for set/checkout/return calls.
	QtyArgs struct {
		ID  string `json:"id"`
		Qty int    `json:"qty"`
	}

	// LineArgs targets a line item scoped to its parent sheet.
	LineArgs struct {
		SheetID string `json:"sheet_id"`
		ItemID  string `json:"item_id"`
	}

	// LineQtyArgs carries a quantity for line-item checkout/return.
	LineQtyArgs struct {
		SheetID string `json:"sheet_id"`
		ItemID  string `json:"item_id"`
		Qty     int    `json:"qty"`
	}
)

var (
	mu     sync.RWMutex
	active Bridge
)

// Register installs the process-wide bridge. The desktop shell calls
// this once at startup, before any repository is constructed.
func Register(b Bridge) {
	mu.Lock()
	defer mu.Unlock()
	active = b
}

// Active returns the registered bridge, or nil when running outside
// the desktop shell.
func Active() Bridge {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Available reports whether a bridge is registered. No side effects;
// safe to call repeatedly.
func Available() bool {
	return Active() != nil
}

// Reset removes the registered bridge. Test hook.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	active = nil
}
