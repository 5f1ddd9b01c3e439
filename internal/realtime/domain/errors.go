package domain

import errprocess "talent_realtime_service/pkg/err"

// domain errors, compare with errors.Is
var (
	ErrChatNotFound         = errprocess.New(errprocess.KindNotFound, "chat not found")
	ErrMessageNotFound      = errprocess.New(errprocess.KindNotFound, "message not found")
	ErrNotificationNotFound = errprocess.New(errprocess.KindNotFound, "notification not found")
	ErrNotParticipant       = errprocess.New(errprocess.KindForbidden, "actor is not a participant of chat")
	ErrSelfChat             = errprocess.New(errprocess.KindValidation, "can not start a chat with yourself")
	ErrEmptyContent         = errprocess.New(errprocess.KindValidation, "message content is empty")
	ErrContentTooLong       = errprocess.New(errprocess.KindValidation, "message content too long")
	ErrUnknownMessageKind   = errprocess.New(errprocess.KindValidation, "unknown message kind")
	ErrInvalidCursor        = errprocess.New(errprocess.KindValidation, "invalid cursor")
	ErrDuplicateChat        = errprocess.New(errprocess.KindDuplicateChat, "more than one chat for pair")
	ErrChatPairMismatch     = errprocess.New(errprocess.KindDuplicateChat, "chat participants do not match pair")
	ErrChatNotAccessible    = errprocess.New(errprocess.KindForbidden, "chat not accessible")
)
