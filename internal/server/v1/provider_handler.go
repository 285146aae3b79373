package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/report"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type ProviderHandler struct {
	registry *ai.Registry
	health   *report.HealthChecker
}

func NewProviderHandler(registry *ai.Registry, health *report.HealthChecker) *ProviderHandler {
	return &ProviderHandler{registry: registry, health: health}
}

// ListProviders returns every configured provider decorated with its most
// recent health record. Providers never probed report as unavailable with
// an explanatory note rather than being omitted.
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	configs := h.registry.List()
	out := make([]api.ProviderInfo, 0, len(configs))

	for _, cfg := range configs {
		info := api.ProviderInfo{
			Name:        cfg.Name,
			DisplayName: cfg.DisplayName,
			Description: cfg.Description,
			Speed:       cfg.Speed,
			Cost:        costLabel(cfg.CostPer1K),
		}

		if status, probed := h.health.Status(cfg.Name); probed {
			info.Available = status.Available
			info.LastError = status.LastError
			info.Models = status.Models
		} else {
			info.LastError = "not yet checked"
		}

		out = append(out, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": out,
		"total":     len(out),
	})
}

// CheckHealth probes every provider and returns the fresh snapshot.
func (h *ProviderHandler) CheckHealth(c *gin.Context) {
	snapshot := h.health.CheckAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"providers": snapshot})
}

// CheckProviderHealth probes a single provider by name.
func (h *ProviderHandler) CheckProviderHealth(c *gin.Context) {
	name := c.Param("provider")
	if _, ok := h.registry.Get(name); !ok {
		c.Error(api.NotFoundError("Provider not found: " + name))
		return
	}

	record := h.health.Check(c.Request.Context(), name)
	c.JSON(http.StatusOK, gin.H{
		"provider": name,
		"health":   record,
	})
}

func costLabel(costPer1K float64) string {
	if costPer1K == 0 {
		return "free"
	}
	return "paid"
}
