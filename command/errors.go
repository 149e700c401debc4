package command

import "errors"

var (
	// ErrNoteRequired indicates a set-note command carried an empty note.
	ErrNoteRequired = errors.New("go-gameprofile: recurring note required")
	// ErrAvatarURLRequired indicates a set-avatar command carried an empty URL.
	ErrAvatarURLRequired = errors.New("go-gameprofile: avatar url required")
)
