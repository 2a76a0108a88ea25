package rest

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

// authenticate resolves the caller from the Authorization header and stores
// the identity in the request context.
func (s *Server) authenticate(c *fiber.Ctx) error {
	id, err := s.gate.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
	return c.Next()
}

// callerID returns the authenticated user id of the request.
func callerID(c *fiber.Ctx) (string, error) {
	id, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return "", common.ErrorUnauthorized
	}
	return id.UserID, nil
}

// requestLogger writes one line per request. Handler errors are rendered
// here so the logged status matches the response.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return nil
}
