package http

import (
	"github.com/rs/zerolog"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/service"
)

// Handler serves the /api/issues/:project resource.
type Handler struct {
	svc    *service.IssueService
	log    zerolog.Logger
	strict bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithStrictStatus reports validation failures as 400 and missing targets
// as 404 instead of answering every outcome with 200.
func WithStrictStatus(strict bool) Option {
	return func(h *Handler) { h.strict = strict }
}

// New creates a new Handler
func New(svc *service.IssueService, log zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{svc: svc, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
