package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gitsleuth-be/internal/apperrors"
	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/pkg/serverutils"
	"gitsleuth-be/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type sessionController struct {
	indexingService service.IIndexingService
	sessionService  service.ISessionService
}

func NewSessionController(indexingService service.IIndexingService, sessionService service.ISessionService) ISessionController {
	return &sessionController{
		indexingService: indexingService,
		sessionService:  sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Post("/index", c.Index)
	r.Get("/status/:session_id", c.Status)
	r.Get("/sessions", c.List)
	r.Delete("/session/:session_id", c.Delete)
	r.Get("/health", c.Health)
}

func (c *sessionController) Index(ctx *fiber.Ctx) error {
	var req dto.IndexRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.indexingService.Index(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(res)
}

func (c *sessionController) Status(ctx *fiber.Ctx) error {
	id, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Status(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	res, err := c.sessionService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	id, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Delete(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Health(ctx *fiber.Ctx) error {
	count, err := c.sessionService.Count(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(dto.HealthResponse{
		Status:   "healthy",
		Sessions: count,
	})
}

func parseSessionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("session_id must be a valid UUID")
	}
	return id, nil
}
