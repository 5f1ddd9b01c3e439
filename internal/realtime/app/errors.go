package app

import (
	"errors"

	"talent_realtime_service/internal/realtime/domain"
	errprocess "talent_realtime_service/pkg/err"
	"talent_realtime_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TransportError code + reason sent to the client
type TransportError struct {
	Status int
	Code   errprocess.Kind
	Reason string
}

// ToTransportError classify err for websocket / http, a missing chat is reported like a forbidden one
func ToTransportError(err error) TransportError {
	if errors.Is(err, domain.ErrChatNotFound) || errors.Is(err, domain.ErrNotParticipant) {
		return TransportError{Status: fiber.StatusForbidden, Code: errprocess.KindForbidden, Reason: domain.ErrChatNotAccessible.Msg}
	}

	kind := errprocess.KindOf(err)
	switch kind {
	case errprocess.KindUnauthenticated:
		return TransportError{Status: fiber.StatusUnauthorized, Code: kind, Reason: "unauthenticated"}
	case errprocess.KindForbidden:
		return TransportError{Status: fiber.StatusForbidden, Code: kind, Reason: reason(err)}
	case errprocess.KindNotFound:
		return TransportError{Status: fiber.StatusNotFound, Code: kind, Reason: reason(err)}
	case errprocess.KindValidation:
		return TransportError{Status: fiber.StatusBadRequest, Code: kind, Reason: reason(err)}
	case errprocess.KindStorageUnavailable:
		logger.Log.Warn("storage unavailable", zap.Error(err))
		return TransportError{Status: fiber.StatusServiceUnavailable, Code: kind, Reason: "storage temporarily unavailable"}
	case errprocess.KindDuplicateChat:
		logger.Log.Error("consistency bug: duplicate chat", zap.Error(err))
	default:
		logger.Log.Error("internal error", zap.Error(err))
	}
	return TransportError{Status: fiber.StatusInternalServerError, Code: errprocess.KindInternal, Reason: "internal error"}
}

// reason message of the outermost AppError, driver details stay in the log
func reason(err error) string {
	var appErr *errprocess.AppError
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return err.Error()
}

// ErrorResponse websocket error event
func ErrorResponse(requestID string, err error) domain.WSResponse {
	te := ToTransportError(err)
	return domain.WSResponse{
		Event:     string(domain.ErrorEvent),
		RequestID: requestID,
		Success:   false,
		Error:     te.Reason,
		Code:      string(te.Code),
	}
}
