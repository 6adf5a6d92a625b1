package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// CRUD is the service side of a Resource, implemented by service.CRUD.
type CRUD[K comparable, D, C, U any] interface {
	List(ctx context.Context) ([]D, error)
	Get(ctx context.Context, id K) (D, error)
	Create(ctx context.Context, in *C) (D, error)
	Update(ctx context.Context, id K, in *U) (D, error)
	Delete(ctx context.Context, id K) error
}

// Resource serves list, get, create, update and delete of one REST resource:
//
//	GET    /api/<path>        200 list
//	GET    /api/<path>/:id    200 | 404
//	POST   /api/<path>        201 + Location | 400 | 409
//	PUT    /api/<path>/:id    200 | 400 | 404
//	DELETE /api/<path>/:id    204 | 404
type Resource[K comparable, D, C, U any] struct {
	// Path below /api, e.g. "/settings".
	Path string
	// Param names the id path parameter, default "id".
	Param string
	// Tag groups the operations in the OpenAPI document.
	Tag string

	Service CRUD[K, D, C, U]
	ParseID func(string) (K, error)
	IDOf    func(D) K
}

// Register adds the routes to router, which is mounted on /api.
func (r *Resource[K, D, C, U]) Register(router fiber.Router, doc *openapi.Doc) error {
	if router == nil || r.Service == nil || r.ParseID == nil || r.IDOf == nil {
		return ErrNilRouter
	}

	item := r.Path + "/:" + r.param()

	router.Get(r.Path, r.List)
	router.Post(r.Path, r.Create)
	router.Get(item, r.Get)
	router.Put(item, r.Update)
	router.Delete(item, r.Delete)

	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: APIPrefix + r.Path, Tag: r.Tag, Summary: "List " + r.Tag,
		Response: new([]D),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPost, Path: APIPrefix + r.Path, Tag: r.Tag, Summary: "Create",
		Request: new(C), Response: new(D), Status: http.StatusCreated,
	})
	doc.Add(openapi.Operation{
		Method: http.MethodGet, Path: APIPrefix + item, Tag: r.Tag, Summary: "Get by " + r.param(),
		Response: new(D),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodPut, Path: APIPrefix + item, Tag: r.Tag, Summary: "Update",
		Request: new(U), Response: new(D),
	})
	doc.Add(openapi.Operation{
		Method: http.MethodDelete, Path: APIPrefix + item, Tag: r.Tag, Summary: "Delete",
		Status: http.StatusNoContent,
	})

	return nil
}

func (r *Resource[K, D, C, U]) param() string {
	if r.Param == "" {
		return ParamID
	}

	return r.Param
}

// List handles GET /api/<path>.
func (r *Resource[K, D, C, U]) List(c *fiber.Ctx) error {
	items, err := r.Service.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(items)
}

// Get handles GET /api/<path>/:id.
func (r *Resource[K, D, C, U]) Get(c *fiber.Ctx) error {
	id, err := r.ParseID(c.Params(r.param()))
	if err != nil {
		return web.BadRequest(c, MsgInvalidID)
	}

	dto, err := r.Service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto)
}

// Create handles POST /api/<path>.
func (r *Resource[K, D, C, U]) Create(c *fiber.Ctx) error {
	in, err := Body[C](c)
	if err != nil {
		return err
	}

	dto, err := r.Service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}

	return Created(c, APIPrefix+r.Path, r.IDOf(dto), dto)
}

// Update handles PUT /api/<path>/:id.
func (r *Resource[K, D, C, U]) Update(c *fiber.Ctx) error {
	id, err := r.ParseID(c.Params(r.param()))
	if err != nil {
		return web.BadRequest(c, MsgInvalidID)
	}

	in, err := Body[U](c)
	if err != nil {
		return err
	}

	dto, err := r.Service.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	return c.JSON(dto)
}

// Delete handles DELETE /api/<path>/:id.
func (r *Resource[K, D, C, U]) Delete(c *fiber.Ctx) error {
	id, err := r.ParseID(c.Params(r.param()))
	if err != nil {
		return web.BadRequest(c, MsgInvalidID)
	}

	if err := r.Service.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Body parses the JSON request body into a new T. A body that does not
// parse answers 400 "Invalid request body".
func Body[T any](c *fiber.Ctx) (*T, error) {
	in := new(T)

	if err := c.BodyParser(in); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, web.MsgInvalidBody)
	}

	return in, nil
}

// Created answers 201 with a Location header pointing at base/id.
func Created(c *fiber.Ctx, base string, id any, body any) error {
	c.Location(base + "/" + url.PathEscape(fmt.Sprint(id)))

	return c.Status(fiber.StatusCreated).JSON(body)
}

// StringID accepts any non empty id.
func StringID(raw string) (string, error) {
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return "", fiber.ErrBadRequest
	}

	return id, nil
}

// IntID parses integer ids.
func IntID(raw string) (int, error) {
	return strconv.Atoi(raw)
}

// Uint64ID parses unsigned integer ids.
func Uint64ID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}
