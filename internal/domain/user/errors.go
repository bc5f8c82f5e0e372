package user

import "errors"

// ErrEmailTaken is returned by stores when the unique email constraint rejects a write.
var ErrEmailTaken = errors.New("email already taken")
