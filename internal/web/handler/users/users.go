// Package users serves the user management API below /api/users.
package users

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	usersvc "github.com/apota/mydms-sub010/internal/service/users"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Path of the resource below /api.
const Path = "/users"

// Service is the users handler service.
type Service struct {
	handler.Service
	svc *usersvc.Service
}

// New creates the handler.
func New(svc *usersvc.Service) *Service {
	return &Service{svc: svc}
}

// Init registers the routes.
func (s *Service) Init(api fiber.Router, doc *openapi.Doc) error {
	if api == nil || s.svc == nil {
		return handler.ErrNilRouter
	}

	api.Post(Path+"/:id/change-password", s.ChangePassword)
	api.Put(Path+"/:id/active", s.SetActive)

	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: handler.APIPrefix + Path + "/:id/change-password", Tag: "users",
		Summary: "Change the password", Request: new(usersvc.ChangePasswordDTO), Status: http.StatusNoContent,
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPut, Path: handler.APIPrefix + Path + "/:id/active", Tag: "users",
		Summary: "Enable or disable", Request: new(usersvc.SetActiveDTO), Response: new(usersvc.UserDTO),
	})

	res := &handler.Resource[uint64, usersvc.UserDTO, usersvc.CreateUserDTO, usersvc.UpdateUserDTO]{
		Path:    Path,
		Tag:     "users",
		Service: s.svc,
		ParseID: handler.Uint64ID,
		IDOf:    func(d usersvc.UserDTO) uint64 { return d.ID },
	}

	return res.Register(api, doc)
}

// ChangePassword handles POST /api/users/:id/change-password.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	id, err := handler.Uint64ID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[usersvc.ChangePasswordDTO](c)
	if err != nil {
		return err
	}

	if err := s.svc.ChangePassword(c.UserContext(), id, in); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetActive handles PUT /api/users/:id/active.
func (s *Service) SetActive(c *fiber.Ctx) error {
	id, err := handler.Uint64ID(c.Params(handler.ParamID))
	if err != nil {
		return web.BadRequest(c, handler.MsgInvalidID)
	}

	in, err := handler.Body[usersvc.SetActiveDTO](c)
	if err != nil {
		return err
	}

	dto, err := s.svc.SetActive(c.UserContext(), id, in.Active)
	if err != nil {
		return err
	}

	return c.JSON(dto)
}
