package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxreg/internal/bootstrap"
	"vaxreg/internal/platform/config"
	"vaxreg/internal/vaccination/handler"
	"vaxreg/internal/vaccination/models"
	"vaxreg/pkg/platform/middleware/requestid"
	"vaxreg/pkg/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	cfg := config.Config{
		Store:              config.Store{Kind: config.StoreFlatFile, DataDir: t.TempDir()},
		Reminder:           config.Reminder{InitialDelay: time.Hour, Period: time.Hour},
		SeedDefaultCenters: true,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := bootstrap.Open(ctx, cfg, log, bootstrap.WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.Shutdown(ctx)
		_ = app.Close()
	})
	return newRouter(app, log)
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "a server over a seeded flat-file registry", func(t *testing.T) {
		router := newTestRouter(t)

		testutil.When(t, "a citizen registers and books a first dose", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/citizens", map[string]any{
				"id": "123456789012", "name": "Asha", "age": 34, "phone": "9876543210",
			}))
			testutil.AssertStatus(t, rr, http.StatusCreated)

			rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/appointments", map[string]any{
				"citizen_id": "123456789012", "center_id": "C002", "dose": "FIRST", "date": "2024-01-10",
			}))

			testutil.Then(t, "the appointment is created with a request ID", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusCreated)
				assert.NotEmpty(t, rr.Header().Get(requestid.Header))
				appt := testutil.UnmarshalResponse[models.Appointment](t, rr)
				assert.Equal(t, models.DoseFirst, appt.Dose)
			})
		})

		testutil.When(t, "the second dose is booked before the first is completed", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/appointments", map[string]any{
				"citizen_id": "123456789012", "center_id": "C001", "dose": "SECOND", "date": "2024-02-10",
			}))

			testutil.Then(t, "it is rejected as an ineligible transition", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "ineligible_transition")
			})
		})

		testutil.When(t, "the dose report is requested", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/reports/doses-per-center", nil))

			testutil.Then(t, "seeded centers appear in order", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				resp := testutil.UnmarshalResponse[handler.DoseReportResponse](t, rr)
				require.Len(t, resp.Centers, 2)
				assert.Equal(t, "C001", resp.Centers[0].CenterID)
				assert.Equal(t, 1, resp.Counts["C002"])
			})
		})

		testutil.When(t, "the audit trail for the citizen is read", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/audit?subject=123456789012", nil))

			testutil.Then(t, "the registration is recorded", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				resp := testutil.UnmarshalResponse[auditResponse](t, rr)
				require.NotEmpty(t, resp.Events)
				assert.Equal(t, "citizen_registered", resp.Events[0].Action)
			})
		})

		testutil.When(t, "recent audit events are read with a bad limit", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/audit?limit=zero", nil))

			testutil.Then(t, "it is rejected", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
			})
		})

		testutil.When(t, "metrics are scraped", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))

			testutil.Then(t, "HTTP request metrics are exposed", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				assert.True(t, strings.Contains(rr.Body.String(), "vaxreg_http_requests_total"))
			})
		})
	})
}
