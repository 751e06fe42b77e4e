package domain

import "fmt"

// ErrorKind tags an Error with one of the taxonomy members from the
// editor's error design. No kind is a sub-kind of another.
type ErrorKind string

const (
	KindNotInitialized    ErrorKind = "NotInitialized"
	KindInvalidLevelConfig ErrorKind = "InvalidLevelConfig"
	KindDataIntegrity     ErrorKind = "DataIntegrity"
	KindStorageError      ErrorKind = "StorageError"
	KindAreaNotFound      ErrorKind = "AreaNotFound"
	KindAreaLevelNotFound ErrorKind = "AreaLevelNotFound"
	KindLevelMismatch     ErrorKind = "LevelMismatch"
	KindAreaHasChildren   ErrorKind = "AreaHasChildren"
	KindParentWouldBeEmpty ErrorKind = "ParentWouldBeEmpty"
	KindCircularReference ErrorKind = "CircularReference"
	KindDraftNotClosed    ErrorKind = "DraftNotClosed"
	KindInvalidGeometry   ErrorKind = "InvalidGeometry"
	KindNoChildLevel      ErrorKind = "NoChildLevel"
	KindDraftNotFound     ErrorKind = "DraftNotFound"
)

// Error is the editor's one error type: a kind tag plus a human-readable
// message. Callers distinguish by Kind, never by Message text.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, domain.ErrAreaNotFound) work against the
// per-kind sentinels declared below, following the same pattern the
// teacher uses for ArchiveError.Is / ErrCannotArchive.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels, one per taxonomy member, for errors.Is comparisons.
var (
	ErrNotInitialized     = &Error{Kind: KindNotInitialized}
	ErrInvalidLevelConfig = &Error{Kind: KindInvalidLevelConfig}
	ErrDataIntegrity      = &Error{Kind: KindDataIntegrity}
	ErrStorageError       = &Error{Kind: KindStorageError}
	ErrAreaNotFound       = &Error{Kind: KindAreaNotFound}
	ErrAreaLevelNotFound  = &Error{Kind: KindAreaLevelNotFound}
	ErrLevelMismatch      = &Error{Kind: KindLevelMismatch}
	ErrAreaHasChildren    = &Error{Kind: KindAreaHasChildren}
	ErrParentWouldBeEmpty = &Error{Kind: KindParentWouldBeEmpty}
	ErrCircularReference  = &Error{Kind: KindCircularReference}
	ErrDraftNotClosed     = &Error{Kind: KindDraftNotClosed}
	ErrInvalidGeometry    = &Error{Kind: KindInvalidGeometry}
	ErrNoChildLevel       = &Error{Kind: KindNoChildLevel}
	ErrDraftNotFound      = &Error{Kind: KindDraftNotFound}
)

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
