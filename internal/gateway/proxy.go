package gateway

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/metrics"
	"github.com/apota/mydms-sub010/internal/web"
)

// Forward sends /<service>/<rest>?<query> to <url>/<rest>?<query> and
// returns the backend response unchanged.
func (g *Gateway) Forward(c *fiber.Ctx) error {
	b, ok := g.backends[c.Params("service")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(web.ErrorBody{Error: MsgNotFound})
	}

	target := b.url + "/" + c.Params("*")
	if qs := c.Request().URI().QueryString(); len(qs) > 0 {
		target += "?" + string(qs)
	}

	if err := proxy.Do(c, target, b.client); err != nil {
		log.Error().Err(err).
			Str("service", b.name).
			Str("method", c.Method()).
			Str("target", target).
			Msg("proxy request failed")

		metrics.UpstreamRequests.WithLabelValues(b.name, metrics.OutcomeError).Inc()
		c.Response().Reset()

		return c.Status(fiber.StatusInternalServerError).JSON(web.ErrorBody{Error: web.MsgInternal})
	}

	metrics.UpstreamRequests.WithLabelValues(b.name, metrics.OutcomeSuccess).Inc()

	return nil
}
