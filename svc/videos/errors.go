package videos

import "errors"

var (
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrURLRequired          = errors.New("youtube url is required")
	ErrInvalidURL           = errors.New("invalid youtube url")
	ErrAlreadyExists        = errors.New("video already exists in the library")
)
