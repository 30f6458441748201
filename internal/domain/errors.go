package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrModelNotFound      = errors.New("model not found")
	ErrPremiumModel       = errors.New("premium model requires pro tier")
	ErrTierRequired       = errors.New("feature not available on current tier")
	ErrProfileIncomplete  = errors.New("health profile is incomplete")
	ErrReplyInProgress    = errors.New("a reply is already streaming")
	ErrMessageNotFound    = errors.New("message not found")
	ErrMessageFinished    = errors.New("message is no longer streaming")
	ErrEmptyEntry         = errors.New("entry is empty")
	ErrEmailRequired      = errors.New("email is not set")
	ErrInvalidProfileData = errors.New("invalid profile value")
)
