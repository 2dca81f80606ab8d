package repository

import "errors"

var (
	// ErrMessageNotFound means the referenced message id does not exist.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotMessageSender means the requester is not the original sender.
	ErrNotMessageSender = errors.New("requester is not the message sender")
	// ErrMessageDeleted means the message was already soft-deleted and its
	// content is frozen.
	ErrMessageDeleted = errors.New("message is deleted")
)
