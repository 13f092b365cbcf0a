package seed

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	resp "github.com/fentashot/casino/internal/lib/api/response"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/metrics"
)

type Handler struct {
	manager   *Manager
	validator *validator.Validate
	log       *slog.Logger
}

func NewHandler(manager *Manager, log *slog.Logger) *Handler {
	return &Handler{
		manager:   manager,
		validator: validator.New(),
		log:       log,
	}
}

type hashResponse struct {
	resp.Response
	ServerSeedHash string `json:"server_seed_hash"`
}

// Hash serves the public commitment of the active seed.
func (h *Handler) Hash() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seed.Hash"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		hash, err := h.manager.ActiveHash()
		if err != nil {
			if errors.Is(err, ErrNoActiveSeed) {
				log.Error("no active seed", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("no_active_seed", http.StatusInternalServerError))

				return
			}

			log.Error("failed to load active seed hash", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to load active seed hash", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, hashResponse{Response: resp.OK(), ServerSeedHash: hash})
	}
}

type rotateResponse struct {
	resp.Response
	NewSeedHash string `json:"new_seed_hash"`
}

func (h *Handler) Rotate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seed.Rotate"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		newSeed, err := h.manager.Rotate(r.Context())
		if err != nil {
			log.Error("failed to rotate seed", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to rotate seed", http.StatusInternalServerError))

			return
		}

		metrics.SeedRotationsTotal.Inc()

		render.JSON(w, r, rotateResponse{Response: resp.OK(), NewSeedHash: newSeed.Hash})
	}
}

type revealRequest struct {
	SeedID string `json:"seed_id" validate:"required,uuid4"`
}

type revealResponse struct {
	resp.Response
	Seed string `json:"seed"`
}

func (h *Handler) Reveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seed.Reveal"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req revealRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := h.validator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		revealed, err := h.manager.Reveal(req.SeedID)
		if err != nil {
			switch {
			case errors.Is(err, ErrSeedNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("seed_not_found", http.StatusNotFound))
			case errors.Is(err, ErrSeedStillActive):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("seed_still_active", http.StatusBadRequest))
			default:
				log.Error("failed to reveal seed", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("failed to reveal seed", http.StatusInternalServerError))
			}

			return
		}

		render.JSON(w, r, revealResponse{Response: resp.OK(), Seed: revealed.Secret})
	}
}

type listResponse struct {
	resp.Response
	Seeds []seedView `json:"seeds"`
}

type seedView struct {
	ID         string `json:"id"`
	Hash       string `json:"hash"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
	RevealedAt string `json:"revealed_at,omitempty"`
}

// List serves seed metadata for the rotation panel. Secrets are never
// included, revealed or not; reveal is an explicit call.
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seed.List"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		seeds, err := h.manager.List()
		if err != nil {
			log.Error("failed to list seeds", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to list seeds", http.StatusInternalServerError))

			return
		}

		views := make([]seedView, 0, len(seeds))
		for _, s := range seeds {
			view := seedView{
				ID:        s.ID,
				Hash:      s.Hash,
				Active:    s.Active,
				CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}

			if s.RevealedAt != nil {
				view.RevealedAt = s.RevealedAt.Format("2006-01-02T15:04:05Z07:00")
			}

			views = append(views, view)
		}

		render.JSON(w, r, listResponse{Response: resp.OK(), Seeds: views})
	}
}
