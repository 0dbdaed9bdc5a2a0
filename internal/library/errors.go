package library

import "errors"

var (
	// ErrReleased is returned when an object is used after its last
	// reference was dropped.
	ErrReleased = errors.New("object has been released")
	// ErrLoggedOut is returned by every session operation after Logout.
	ErrLoggedOut = errors.New("session is logged out")
	// ErrIndexOutOfRange is returned for a container or playlist position
	// outside the current contents.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrAlreadyInContainer is returned when adding a playlist the
	// container already holds.
	ErrAlreadyInContainer = errors.New("playlist is already in the container")
	// ErrInvalidName is returned for an empty or overlong playlist name.
	ErrInvalidName = errors.New("invalid playlist name")
	// ErrInvalidUser is returned by Login for an unusable user name.
	ErrInvalidUser = errors.New("invalid user name")
)
