package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/apota/mydms-sub010/internal/web"
)

// HealthBody answers GET /health.
type HealthBody struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
	Services  []string  `json:"services"`
}

// Health reports the uptime in seconds and the routed services.
func (g *Gateway) Health(c *fiber.Ctx) error {
	body := HealthBody{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    g.Uptime().Seconds(),
		Services:  g.Services(),
	}

	if !g.Alive() {
		body.Status = "shutting down"

		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}

	return c.JSON(body)
}

type link struct {
	Name string
	URL  string
}

// Index renders the landing page.
func (g *Gateway) Index(c *fiber.Ctx) error {
	links := make([]link, 0, len(g.names))
	for _, name := range g.names {
		links = append(links, link{Name: name, URL: g.backends[name].url})
	}

	return c.Render("index", fiber.Map{
		"Title":    g.Title(),
		"Uptime":   g.Uptime().Round(time.Second).String(),
		"Services": links,
	}, web.BaseLayout)
}
