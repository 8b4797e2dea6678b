package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepmind-dev/prepmind-api/internal/domain"
	"github.com/prepmind-dev/prepmind-api/internal/utils"
)

// CatalogHandler serves the static configuration catalog consumed by the
// interview setup screen.
type CatalogHandler struct{}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Register wires the handler endpoints into the router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("", h.catalog)
}

func (h *CatalogHandler) catalog(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "catalog retrieved", fiber.Map{
		"domains":      domain.Domains,
		"difficulties": domain.DifficultyLevels,
		"formats":      domain.InterviewFormats,
		"languages":    domain.SupportedLanguages,
	})
}
