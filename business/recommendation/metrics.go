package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	SourceCache              = "cache"
	SourceModel              = "model"
	SourceColdStartInterests = "cold_start_interests"
	SourceColdStartPopular   = "cold_start_popular"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_served_total",
			Help: "Count of recommendation lists served, by source (cache, model, cold start).",
		},
		[]string{"source"},
	)

	TrainingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_training_runs_total",
			Help: "Count of training runs by outcome.",
		},
		[]string{"outcome"},
	)

	ModelUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "recommendation_model_users",
		Help: "Number of users in the live similarity model.",
	})
)

func init() {
	prometheus.MustRegister(RecommendationsServedTotal, TrainingRunsTotal, ModelUsers)
}
