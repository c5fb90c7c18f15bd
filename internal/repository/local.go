package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stagekit-api/internal/bridge"
)

// ErrNoBridge is returned when a local repository method is called
// outside the desktop shell. It fires before any bridge call is
// attempted.
var ErrNoBridge = errors.New("desktop bridge not available")

// callBridge issues one bridge call and decodes the tagged result into
// out (which may be nil for calls whose data the caller ignores).
// A failed Result comes back as a plain error carrying the bridge's
// diagnostic text; the caller decides whether to degrade or propagate.
func callBridge(ctx context.Context, method string, args any, out any) error {
	br := bridge.Active()
	if br == nil {
		return ErrNoBridge
	}

	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", method, err)
	}

	result := br.Call(ctx, method, payload)
	if !result.Success {
		return errors.New(result.Error)
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
