package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

// ErrSlotEmpty is returned by Persister.Load when nothing is stored under the key.
var ErrSlotEmpty = errors.New("cart slot empty")

// Persister is a durable key/value slot for cart snapshots.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Name() string
}

const (
	phaseLoad   = "load"
	phaseDecode = "decode"
	phaseEncode = "encode"
	phaseSave   = "save"
	phaseDelete = "delete"
)

// PersistError records which slot and phase (load/save/delete/decode) failed.
type PersistError struct {
	Slot  string
	Phase string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("cart %s slot %s: %v", e.Slot, e.Phase, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// WriteThrough returns a listener that mirrors every snapshot into p under key.
// An empty snapshot deletes the slot. Failures are logged and returned to the
// store's error hook; they never undo the mutation.
func WriteThrough(p Persister, key string, logg *logger.Logger) Listener {
	return func(ctx context.Context, snap Snapshot) error {
		var err error
		if snap.IsEmpty() {
			if delErr := p.Delete(ctx, key); delErr != nil {
				err = &PersistError{Slot: p.Name(), Phase: phaseDelete, Err: delErr}
			}
		} else {
			payload, encErr := EncodeSnapshot(snap)
			if encErr != nil {
				err = &PersistError{Slot: p.Name(), Phase: phaseEncode, Err: encErr}
			} else if saveErr := p.Save(ctx, key, payload); saveErr != nil {
				err = &PersistError{Slot: p.Name(), Phase: phaseSave, Err: saveErr}
			}
		}
		if err != nil && logg != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "cart.persist.write_failed")
		}
		return err
	}
}
