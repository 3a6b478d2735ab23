package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gitsleuth-be/internal/apperrors"
)

// ErrorResponse is the transport shape for every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ErrorHandlerMiddleware maps the application error taxonomy onto HTTP status
// codes. Plain errors fall through as 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
		}

		if kind, ok := apperrors.KindOf(err); ok {
			return ctx.Status(statusForKind(kind)).JSON(ErrorResponse{
				Error:  labelForKind(kind),
				Detail: err.Error(),
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:  "Internal server error",
			Detail: err.Error(),
		})
	}
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindNotReady, apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func labelForKind(kind apperrors.Kind) string {
	switch kind {
	case apperrors.KindValidation:
		return "Validation error"
	case apperrors.KindNotFound:
		return "Session not found"
	case apperrors.KindNotReady:
		return "Session not ready"
	case apperrors.KindConflict:
		return "Indexing already in progress"
	case apperrors.KindIngestion:
		return "Indexing error"
	case apperrors.KindUpstream:
		return "Upstream provider error"
	default:
		return "Internal server error"
	}
}
