// Package board holds the published movers board in a boutique store. The
// pipeline writes whole snapshots; readers either take the current snapshot
// or watch for changes.
package board

import (
	"context"
	"errors"
	"time"

	"github.com/johnsiilver/boutique"
	"github.com/phuslu/log"

	"stock-movers/logging"
	"stock-movers/models"
)

// Action types.
const (
	ActPublish = iota
	ActClear
)

// State is the store's data. Records is only ever replaced, never mutated.
type State struct {
	Generation uint64
	Period     models.Period
	Batch      int
	Batches    int
	Final      bool
	Records    []models.StockRecord
	UpdatedAt  time.Time
}

// ErrStale is returned by Publish for a snapshot from an older generation.
var ErrStale = errors.New("snapshot from a superseded generation")

// Board wraps the store.
type Board struct {
	store  *boutique.Store
	logger *log.Logger
	now    func() time.Time
}

// New creates an empty board.
func New(logger *log.Logger) (*Board, error) {
	b := &Board{logger: logging.OrDiscard(logger), now: time.Now}
	store, err := boutique.New(
		State{Records: []models.StockRecord{}},
		boutique.NewModifiers(b.modify),
		[]boutique.Middleware{b.rejectStale, b.logCommit},
	)
	if err != nil {
		return nil, err
	}
	b.store = store
	return b, nil
}

// Publish replaces the board with s. A snapshot whose generation is older
// than the one on the board is dropped with ErrStale.
func (b *Board) Publish(s models.Snapshot) error {
	s.Records = append([]models.StockRecord(nil), s.Records...)
	return b.store.Perform(boutique.Action{Type: ActPublish, Update: s})
}

// Clear empties the board, keeping the generation so older runs stay stale.
func (b *Board) Clear() error {
	return b.store.Perform(boutique.Action{Type: ActClear})
}

// Snapshot returns the current board. The record slice is a copy.
func (b *Board) Snapshot() models.Snapshot {
	return toSnapshot(b.store.State().Data.(State))
}

// Version increases with every committed change.
func (b *Board) Version() uint64 { return b.store.State().Version }

// Watch delivers the board after each change until ctx is done. A slow
// reader only sees the latest board.
func (b *Board) Watch(ctx context.Context) (<-chan models.Snapshot, error) {
	sig, cancel, err := b.store.Subscribe(boutique.Any)
	if err != nil {
		return nil, err
	}
	out := make(chan models.Snapshot, 1)
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
				// Signals can arrive out of order, so read the store.
				select {
				case <-out:
				default:
				}
				out <- b.Snapshot()
			}
		}
	}()
	return out, nil
}

func (b *Board) modify(state interface{}, action boutique.Action) interface{} {
	s := state.(State)
	switch action.Type {
	case ActPublish:
		snap := action.Update.(models.Snapshot)
		s = State{
			Generation: snap.Generation,
			Period:     snap.Period,
			Batch:      snap.Batch,
			Batches:    snap.Batches,
			Final:      snap.Final,
			Records:    snap.Records,
			UpdatedAt:  b.now(),
		}
	case ActClear:
		s = State{Generation: s.Generation, Records: []models.StockRecord{}, UpdatedAt: b.now()}
	}
	return s
}

func (b *Board) rejectStale(args *boutique.MWArgs) (interface{}, bool, error) {
	defer args.WG.Done()
	if args.Action.Type != ActPublish {
		return nil, false, nil
	}
	cur := args.GetState().Data.(State)
	if next := args.NewData.(State); next.Generation < cur.Generation {
		return nil, true, ErrStale
	}
	return nil, false, nil
}

func (b *Board) logCommit(args *boutique.MWArgs) (interface{}, bool, error) {
	defer args.WG.Done()
	next := args.NewData.(State)
	b.logger.Debug().Uint64("generation", next.Generation).Str("period", next.Period.String()).
		Int("batch", next.Batch).Int("records", len(next.Records)).Msg("board updated")
	return nil, false, nil
}

func toSnapshot(s State) models.Snapshot {
	return models.Snapshot{
		Generation: s.Generation,
		Period:     s.Period,
		Batch:      s.Batch,
		Batches:    s.Batches,
		Final:      s.Final,
		Records:    append([]models.StockRecord{}, s.Records...),
	}
}
