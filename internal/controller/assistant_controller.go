package controller

import (
	"errors"
	"io"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/ai/session"
	"ai-assistant-be/pkg/extract"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	SubmitMessage(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	UploadFile(ctx *fiber.Ctx) error
	ToggleBrainstorm(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	ListArchive(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	archiveService   service.IArchiveService
	jwtSecret        string
}

// NewAssistantController wires the session routes. archiveService may be
// nil when no database is configured.
func NewAssistantController(assistantService service.IAssistantService, archiveService service.IArchiveService, jwtSecret string) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		archiveService:   archiveService,
		jwtSecret:        jwtSecret,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant")

	sessions := h.Group("/sessions")
	sessions.Use(serverutils.OptionalJwtMiddleware(c.jwtSecret))
	sessions.Post("", c.CreateSession)
	sessions.Get(":id", c.GetSession)
	sessions.Post(":id/messages", c.SubmitMessage)
	sessions.Post(":id/stop", c.Stop)
	sessions.Post(":id/uploads", c.UploadFile)
	sessions.Post(":id/brainstorm", c.ToggleBrainstorm)
	sessions.Delete(":id", c.ClearSession)

	if c.archiveService != nil {
		archive := h.Group("/archive")
		archive.Use(serverutils.JwtMiddleware(c.jwtSecret))
		archive.Get("", c.ListArchive)
	}
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *assistantController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *assistantController) SubmitMessage(ctx *fiber.Ctx) error {
	var req dto.SubmitMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SubmitMessage(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return mapServiceError(err)
	}

	switch session.SubmitStatus(res.Status) {
	case session.SubmitAccepted:
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Message accepted", res))
	case session.SubmitAuthRequired:
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "login_required"))
	case session.SubmitRateLimited:
		return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "rate_limited"))
	default:
		return ctx.JSON(serverutils.SuccessResponse("Message ignored", res))
	}
}

func (c *assistantController) Stop(ctx *fiber.Ctx) error {
	res, err := c.assistantService.Stop(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success stop generation", res))
}

func (c *assistantController) UploadFile(ctx *fiber.Ctx) error {
	file, err := readUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.assistantService.UploadFile(ctx.UserContext(), ctx.Params("id"), file)
	if err != nil {
		return mapServiceError(err)
	}

	switch session.UploadStatus(res.Status) {
	case session.UploadAccepted:
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Upload accepted", res))
	case session.UploadRejected:
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "no_file"))
	case session.UploadAuthRequired:
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "login_required"))
	case session.UploadRateLimited:
		return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "rate_limited"))
	default:
		return ctx.JSON(serverutils.SuccessResponse("Upload ignored", res))
	}
}

func (c *assistantController) ToggleBrainstorm(ctx *fiber.Ctx) error {
	res, err := c.assistantService.ToggleBrainstorm(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle brainstorm", res))
}

func (c *assistantController) ClearSession(ctx *fiber.Ctx) error {
	if err := c.assistantService.ClearSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear session", nil))
}

func (c *assistantController) ListArchive(ctx *fiber.Ctx) error {
	var req dto.ArchiveQueryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userID, _ := ctx.Locals("user_id").(string)
	res, err := c.archiveService.ListTurns(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list archive", res))
}

// readUpload returns nil when the form carries no file; the session
// reports that as its own notice.
func readUpload(ctx *fiber.Ctx) (*extract.File, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}

	return &extract.File{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

func mapServiceError(err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
