package api

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Number of ranked tool searches served.",
	})
	votesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_votes_total",
		Help: "Number of votes cast on tools.",
	})
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_submissions_total",
		Help: "Number of accepted public submissions.",
	})
	moderationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_moderation_decisions_total",
		Help: "Number of moderation decisions by outcome.",
	}, []string{"decision"})

	toolsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_tools",
		Help: "Current number of published tools.",
	})
	submissionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_pending_submissions",
		Help: "Current number of submissions awaiting moderation.",
	})
)

// UpdateCatalogMetrics refreshes the collection-size gauges. Called
// periodically from main.
func (s *Server) UpdateCatalogMetrics() {
	tools, submissions, err := s.service.Counts(context.Background())
	if err != nil {
		log.Printf("Failed to update catalog metrics: %v", err)
		return
	}
	toolsGauge.Set(float64(tools))
	submissionsGauge.Set(float64(submissions))
}
