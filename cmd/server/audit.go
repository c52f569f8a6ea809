package main

import (
	"context"
	"net/http"
	"strconv"

	dErrors "vaxreg/pkg/domain-errors"
	"vaxreg/pkg/platform/audit"
	"vaxreg/pkg/platform/httputil"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type auditReader interface {
	List(ctx context.Context, subject string) ([]audit.Event, error)
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
}

type auditResponse struct {
	Events []audit.Event `json:"events"`
	Total  int           `json:"total"`
}

// handleAudit serves GET /audit. ?subject= filters by record ID, otherwise
// the most recent ?limit= events are returned.
func handleAudit(reader auditReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var (
			events []audit.Event
			err    error
		)
		if subject := r.URL.Query().Get("subject"); subject != "" {
			events, err = reader.List(ctx, subject)
		} else {
			limit, perr := parseLimit(r.URL.Query().Get("limit"))
			if perr != nil {
				httputil.WriteError(w, perr)
				return
			}
			events, err = reader.Recent(ctx, limit)
		}
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "read audit events"))
			return
		}
		if events == nil {
			events = []audit.Event{}
		}
		httputil.WriteJSON(w, http.StatusOK, auditResponse{Events: events, Total: len(events)})
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultAuditLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	return min(n, maxAuditLimit), nil
}
