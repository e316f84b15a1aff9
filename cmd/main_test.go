package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/perfsum/internal/config"
	"github.com/okian/perfsum/pkg/logger"
	"github.com/okian/perfsum/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestBuildHandler(t *testing.T) {
	convey.Convey("Given a config for the offline provider", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.Provider = config.ProviderFake

		convey.Convey("When the handler is built", func() {
			h, svc, err := buildHandler(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then the API and the docs are both routed", func() {
				for _, path := range []string{"/", "/test-connection/", "/stats", "/metrics", "/api-docs", "/openapi.yaml"} {
					w := httptest.NewRecorder()
					h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})

			convey.Convey("And an upload goes end to end", func() {
				var buf bytes.Buffer
				mw := multipart.NewWriter(&buf)
				part, _ := mw.CreateFormFile("file", "team.csv")
				_, _ = io.WriteString(part, "employee_name,employee_id,department,month,tasks_completed,goals_met\nAlice,E1,Eng,Jan,\"Shipped 3 features\",85\n")
				_ = mw.Close()

				req := httptest.NewRequest(http.MethodPost, "/upload-csv/", &buf)
				req.Header.Set("Content-Type", mw.FormDataContentType())
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var out []map[string]any
				convey.So(json.Unmarshal(w.Body.Bytes(), &out), convey.ShouldBeNil)
				convey.So(out, convey.ShouldHaveLength, 1)
				convey.So(out[0]["goals_met"], convey.ShouldEqual, 85.0)
				convey.So(out[0]["summary"], convey.ShouldNotStartWith, "Error generating summary:")
				convey.So(svc.GetStats()["rowsProcessed"], convey.ShouldEqual, int64(1))
			})
		})

		convey.Convey("When the policy is unknown", func() {
			cfg.MissingValuePolicy = "loose"
			_, _, err := buildHandler(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the provider is unknown", func() {
			cfg.Provider = "nope"
			_, _, err := buildHandler(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop ticks and exits when the context is done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx, time.Millisecond)
				close(done)
			}()
			time.Sleep(10 * time.Millisecond)
			cancel()
			<-done

			goroutines := gaugeValue("perfsum_api_system_goroutine_count")
			convey.So(goroutines, convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("Then the interval comes from the metrics manager", func() {
			convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 10*time.Second)
		})
	})
}

func gaugeValue(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, f := range families {
		if f.GetName() == name && len(f.GetMetric()) > 0 {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}
