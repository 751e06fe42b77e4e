package editor

import "areacatalog/internal/domain"

// Undo reverses the most recent entry: created areas are removed,
// deleted areas are restored, modified areas revert to their before
// image. The reverse Change Set is dispatched to the adapter exactly
// like a forward operation (§4.6). An empty undo stack is not an
// error (P10/S6): Undo returns a zero HistoryEntry and leaves both the
// in-memory state and the adapter untouched.
func (e *Engine) Undo() (domain.HistoryEntry, error) {
	if err := e.requireInitialized(); err != nil {
		return domain.HistoryEntry{}, err
	}
	entry, ok := e.history.Undo()
	if !ok {
		return domain.HistoryEntry{}, nil
	}

	for _, a := range entry.Created {
		e.areas.Delete(a.ID)
	}
	for _, a := range entry.Deleted {
		e.areas.Add(a)
	}
	for _, pair := range entry.Modified {
		e.areas.Update(pair.Before)
	}

	reverse := domain.ChangeSet{
		Created: append([]domain.Area(nil), entry.Deleted...),
	}
	for _, a := range entry.Created {
		reverse.Deleted = append(reverse.Deleted, a.ID)
	}
	for _, pair := range entry.Modified {
		reverse.Modified = append(reverse.Modified, pair.Before)
	}
	if err := e.cfg.Adapter.BatchWrite(reverse); err != nil {
		return entry, domain.NewError(domain.KindStorageError, "undo batch write: %v", err)
	}
	return entry, nil
}

// Redo re-applies the most recently undone entry forward. An empty
// redo stack is not an error, for the same reason as Undo above.
func (e *Engine) Redo() (domain.HistoryEntry, error) {
	if err := e.requireInitialized(); err != nil {
		return domain.HistoryEntry{}, err
	}
	entry, ok := e.history.Redo()
	if !ok {
		return domain.HistoryEntry{}, nil
	}

	for _, a := range entry.Created {
		e.areas.Add(a)
	}
	for _, a := range entry.Deleted {
		e.areas.Delete(a.ID)
	}
	for _, pair := range entry.Modified {
		e.areas.Update(pair.After)
	}

	if err := e.cfg.Adapter.BatchWrite(domain.ChangeSetFrom(entry)); err != nil {
		return entry, domain.NewError(domain.KindStorageError, "redo batch write: %v", err)
	}
	return entry, nil
}

// UndoDepth and RedoDepth expose stack sizes for callers (e.g. tests
// asserting P10: bounded history).
func (e *Engine) UndoDepth() int { return e.history.UndoDepth() }
func (e *Engine) RedoDepth() int { return e.history.RedoDepth() }
