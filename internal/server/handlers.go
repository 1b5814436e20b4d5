package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/emberlabs/go-ember/pkg/tutor"
)

type chatRequest struct {
	// Message is decoded loosely so a wrong-typed value can be rejected
	// with 400 instead of a body-parse failure.
	Message           any               `json:"message"`
	SessionID         string            `json:"sessionId"`
	Image             string            `json:"image"`
	Answers           map[string]string `json:"answers"`
	LastEditedProblem string            `json:"lastEditedProblem"`
	Subject           string            `json:"subject"`
	Grade             string            `json:"grade"`
	Standard          string            `json:"standard"`
}

type chatResponse struct {
	Response string  `json:"response"`
	AudioURL *string `json:"audioUrl"`
}

type greetResponse struct {
	Greeting string  `json:"greeting"`
	AudioURL *string `json:"audioUrl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var body chatRequest
	if err := c.BodyParser(&body); err != nil {
		return s.badRequest(c, "/api/chat", "Invalid request body")
	}

	message, ok := body.Message.(string)
	if !ok {
		return s.badRequest(c, "/api/chat", "Invalid or missing 'message'")
	}

	req := &tutor.TurnRequest{
		SessionID:         body.SessionID,
		Message:           message,
		Image:             body.Image,
		Answers:           body.Answers,
		LastEditedProblem: body.LastEditedProblem,
		Subject:           body.Subject,
		Grade:             body.Grade,
		Standard:          body.Standard,
	}

	session := s.sessions.Get(body.SessionID)
	reply, err := s.orchestrator.Respond(c.Context(), session, req)
	if err != nil {
		if errors.Is(err, tutor.ErrNoMessage) {
			return s.badRequest(c, "/api/chat", "Invalid or missing 'message'")
		}
		s.logger.Error("chat turn failed", "error", err)
		return s.respond(c, "/api/chat", fiber.StatusInternalServerError,
			errorResponse{Error: "Failed to process request"})
	}

	return s.respond(c, "/api/chat", fiber.StatusOK, chatResponse{
		Response: reply.Text,
		AudioURL: optional(reply.AudioURL),
	})
}

func (s *Server) handleGreet(c *fiber.Ctx) error {
	greeting, err := s.orchestrator.Greet(c.Context())
	if err != nil {
		s.logger.Error("greeting failed", "error", err)
		return s.respond(c, "/api/greet", fiber.StatusInternalServerError,
			errorResponse{Error: "Failed to create greeting."})
	}

	return s.respond(c, "/api/greet", fiber.StatusOK, greetResponse{
		Greeting: greeting.Text,
		AudioURL: optional(greeting.AudioURL),
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) badRequest(c *fiber.Ctx, route, msg string) error {
	if s.metrics != nil {
		s.metrics.TurnsRejected.Inc()
	}
	return s.respond(c, route, fiber.StatusBadRequest, errorResponse{Error: msg})
}

func (s *Server) respond(c *fiber.Ctx, route string, status int, body any) error {
	if s.metrics != nil {
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
	return c.Status(status).JSON(body)
}

// optional maps the empty string to a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
