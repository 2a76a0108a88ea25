package rest

import (
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gofiber/fiber/v2"
)

const messageInternal = "Something went wrong."

// errorResponse maps a service error to a status code and response body.
func errorResponse(err error) (int, messageResponse) {
	var verr *common.ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, messageResponse{Message: "Validation failed.", Data: verr.Fields}
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusUnprocessableEntity, messageResponse{Message: "Validation failed."}
	case errors.Is(err, common.ErrUnknownEmail):
		return fiber.StatusUnauthorized, messageResponse{Message: "A user with this email could not be found."}
	case errors.Is(err, common.ErrWrongPassword):
		return fiber.StatusUnauthorized, messageResponse{Message: "Wrong password!"}
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, messageResponse{Message: "Not authenticated."}
	case errors.Is(err, common.ErrorForbidden):
		return fiber.StatusForbidden, messageResponse{Message: "Not authorized!"}
	case errors.Is(err, common.ErrUserNotFound):
		return fiber.StatusNotFound, messageResponse{Message: "Could not find user."}
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, messageResponse{Message: "Could not find task."}
	case errors.Is(err, common.ErrorConflict):
		return fiber.StatusConflict, messageResponse{Message: "E-Mail address already exists!"}
	case errors.As(err, &ferr):
		return ferr.Code, messageResponse{Message: ferr.Message}
	default:
		return fiber.StatusInternalServerError, messageResponse{Message: messageInternal}
	}
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, body := errorResponse(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(code).JSON(body)
}
