package usecase

import (
	"context"
	"strings"
	"time"

	"BankBrain/internal/domain/models"
	drepo "BankBrain/internal/domain/repository"
	xlogger "BankBrain/pkg/logger"

	"github.com/google/uuid"
)

// Router is the gateway's routing boundary. Destinations are fixed at
// construction; payloads are forwarded without being inspected.
type Router struct {
	routes    map[string]string
	forwarder drepo.Forwarder
	metrics   drepo.Metrics
	logger    *xlogger.Logger
	newID     func() string
}

// SupportRoutes returns the built-in destination table.
func SupportRoutes(supportURL string) map[string]string {
	return map[string]string{
		models.DestinationSupportAgent: strings.TrimRight(supportURL, "/") + "/internal_notify",
	}
}

func NewRouter(routes map[string]string, forwarder drepo.Forwarder, metrics drepo.Metrics, logger *xlogger.Logger) *Router {
	return &Router{
		routes:    routes,
		forwarder: forwarder,
		metrics:   metrics,
		logger:    logger,
		newID:     func() string { return uuid.NewString() },
	}
}

// Route forwards env to its destination once. Every outcome is reported in
// the result; Route itself never fails.
func (r *Router) Route(ctx context.Context, env models.Envelope) models.RouteResult {
	target, ok := r.routes[env.To]
	if !ok {
		r.metrics.RecordRouted("unknown", "unknown_target")
		r.logger.Warn("unknown destination", xlogger.String("to", env.To))
		return models.RouteResult{OK: false, Error: models.ErrUnknownTarget}
	}

	id := r.newID()
	start := time.Now()
	err := r.forwarder.Forward(ctx, target, env.Payload)
	r.metrics.RecordLatency("gateway_forward", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordRouted(env.To, "error")
		r.logger.Error("forward failed",
			xlogger.String("to", env.To),
			xlogger.String("capability", env.Capability),
			xlogger.String("message_id", id),
			xlogger.Error(err),
		)
		return models.RouteResult{OK: false, Error: err.Error(), MessageID: id}
	}

	r.metrics.RecordRouted(env.To, "ok")
	r.logger.Info("message routed",
		xlogger.String("to", env.To),
		xlogger.String("capability", env.Capability),
		xlogger.String("message_id", id),
	)
	return models.RouteResult{OK: true, RoutedTo: env.To, MessageID: id}
}

// Card describes the gateway.
func (r *Router) Card() models.AgentCard {
	return models.AgentCard{
		Name:         "a2a-gateway",
		Capabilities: []string{models.CapabilityNotifyUser, models.CapabilityRequestConsent},
		Endpoints:    map[string]string{"messages": "/messages"},
	}
}
