package gateway

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"github.com/apota/mydms-sub010/internal/web"
)

// SearchResult groups the hits of one service.
type SearchResult struct {
	Service string            `json:"service"`
	Results []json.RawMessage `json:"results"`
}

// SearchResponse answers GET /search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// Search asks every service concurrently. Services that fail or find nothing
// are left out.
func (g *Gateway) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return web.BadRequest(c, web.MsgSearchQueryRequired)
	}

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.Set("q", q)
	args.Set("type", c.Query("type"))

	query := args.String()
	authz := c.Get(fiber.HeaderAuthorization)
	hits := make([][]json.RawMessage, len(g.names))

	var eg errgroup.Group

	for i, name := range g.names {
		b := g.backends[name]

		eg.Go(func() error {
			hits[i] = g.searchOne(b, query, authz)

			return nil
		})
	}

	_ = eg.Wait()

	res := SearchResponse{Query: q, Results: []SearchResult{}}

	for i, name := range g.names {
		if len(hits[i]) > 0 {
			res.Results = append(res.Results, SearchResult{Service: name, Results: hits[i]})
		}
	}

	return c.JSON(res)
}

func (g *Gateway) searchOne(b *backend, query, authz string) []json.RawMessage {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(b.origin + web.SearchPath + "?" + query)
	req.Header.SetMethod(fasthttp.MethodGet)

	if authz != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, authz)
	}

	if err := b.client.DoTimeout(req, resp, g.searchTimeout); err != nil {
		log.Warn().Err(err).Str("service", b.name).Msg("search failed")

		return nil
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil
	}

	var hits []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &hits); err != nil {
		log.Warn().Err(err).Str("service", b.name).Msg("search returned no list")

		return nil
	}

	return hits
}
