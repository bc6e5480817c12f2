package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agri-advisor/internal/model"
	"github.com/sells-group/agri-advisor/internal/scheduler"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the advisory HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAdvisor(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if cfg.Scheduler.Enabled {
			sched := scheduler.New(env.Store, env.Pipeline, cfg.Scheduler.SweepCron, cfg.Scheduler.SweepLimit)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/ask", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Question string `json:"question"`
				UserID   string `json:"user_id"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if body.Question == "" {
				http.Error(w, `{"error":"question is required"}`, http.StatusBadRequest)
				return
			}

			advisory := env.Pipeline.HandleQuestion(req.Context(), body.Question)
			persistAdvisory(req, env, body.UserID, body.Question, advisory)

			status := http.StatusOK
			if advisory.Status == model.StatusError {
				status = http.StatusBadGateway
			}
			writeJSON(w, status, advisory)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// persistAdvisory records the question and, for successful advisories,
// schedules the emitted poll for re-analysis. Storage failures are
// logged, not surfaced; the advisory itself is already computed.
func persistAdvisory(req *http.Request, env *advisorEnv, userID, question string, advisory *model.Advisory) {
	record, err := env.Store.CreateQuestion(req.Context(), userID, question, advisory.Domain)
	if err != nil {
		zap.L().Warn("serve: failed to store question", zap.Error(err))
		return
	}
	if advisory.Poll == nil {
		return
	}
	dueAt := time.Now().UTC().Add(time.Duration(cfg.Scheduler.PollDelayHrs) * time.Hour)
	if _, err := env.Store.CreatePoll(req.Context(), record.ID, *advisory.Poll, dueAt); err != nil {
		zap.L().Warn("serve: failed to store poll", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
