package spin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/event"
	"github.com/fentashot/casino/internal/http-server/handlers/job"
	"github.com/fentashot/casino/internal/http-server/handlers/roulette/bet"
	"github.com/fentashot/casino/internal/http-server/handlers/seed"
	"github.com/fentashot/casino/internal/http-server/middleware/auth"
	"github.com/fentashot/casino/internal/lib/api/response"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/metrics"
	"github.com/fentashot/casino/internal/producer"
	"github.com/fentashot/casino/internal/repository"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type Handler struct {
	log          *slog.Logger
	validator    *validator.Validate
	orchestrator *Orchestrator
	spinRep      *repository.SpinRepository
	balanceRep   *repository.UserBalanceRepository
	publisher    *event.RedisEvent
	audit        *producer.KafkaPublisher
	eventChannel string
}

func NewHandler(
	log *slog.Logger,
	orchestrator *Orchestrator,
	spinRep *repository.SpinRepository,
	balanceRep *repository.UserBalanceRepository,
	publisher *event.RedisEvent,
	audit *producer.KafkaPublisher,
	eventChannel string,
) *Handler {
	return &Handler{
		log:          log,
		validator:    validator.New(),
		orchestrator: orchestrator,
		spinRep:      spinRep,
		balanceRep:   balanceRep,
		publisher:    publisher,
		audit:        audit,
		eventChannel: eventChannel,
	}
}

type resultView struct {
	Number int    `json:"number"`
	Color  string `json:"color"`
}

type provablyFairView struct {
	ClientSeed     string `json:"client_seed"`
	ServerSeedHash string `json:"server_seed_hash"`
	Nonce          int64  `json:"nonce"`
	Hmac           string `json:"hmac"`
}

type spinResponse struct {
	response.Response
	Result       resultView       `json:"result"`
	TotalBet     int64            `json:"total_bet"`
	TotalWin     int64            `json:"total_win"`
	NewBalance   int64            `json:"new_balance"`
	ProvablyFair provablyFairView `json:"provably_fair"`
	Replayed     bool             `json:"replayed,omitempty"`
}

type invalidNonceResponse struct {
	response.Response
	ExpectedNonce int64 `json:"expected_nonce"`
	ReceivedNonce int64 `json:"received_nonce"`
}

func (h *Handler) Spin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roulette.spin.Spin"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID := auth.UserIDFromContext(r.Context())

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := h.validator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		result, err := h.orchestrator.HandleSpin(r.Context(), userID, req)
		if err != nil {
			h.renderSpinError(w, r, log, err)

			return
		}

		if result.Replayed {
			metrics.SpinReplaysTotal.Inc()
		} else {
			h.recordSettlement(result)
		}

		render.JSON(w, r, spinResponse{
			Response: response.OK(),
			Result: resultView{
				Number: result.Spin.Number,
				Color:  string(result.Spin.Color),
			},
			TotalBet:   result.Spin.TotalBet,
			TotalWin:   result.Spin.TotalWin,
			NewBalance: result.NewBalance,
			ProvablyFair: provablyFairView{
				ClientSeed:     result.Spin.ClientSeed,
				ServerSeedHash: result.ServerSeedHash,
				Nonce:          result.Spin.Nonce,
				Hmac:           result.Spin.Hmac,
			},
			Replayed: result.Replayed,
		})
	}
}

func (h *Handler) renderSpinError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		nonceErr *InvalidNonceError
		betErr   *InvalidBetError
	)

	switch {
	case errors.As(err, &nonceErr):
		metrics.SpinFailuresTotal.WithLabelValues("invalid_nonce").Inc()

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidNonceResponse{
			Response:      response.Error("invalid_nonce", http.StatusBadRequest),
			ExpectedNonce: nonceErr.Expected,
			ReceivedNonce: nonceErr.Received,
		})
	case errors.As(err, &betErr), errors.Is(err, bet.ErrInvalidAmount),
		errors.Is(err, bet.ErrInvalidNumberCount),
		errors.Is(err, bet.ErrInvalidNumberRange),
		errors.Is(err, bet.ErrInvalidChoice):
		metrics.SpinFailuresTotal.WithLabelValues("invalid_bet").Inc()

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid_bet: "+err.Error(), http.StatusBadRequest))
	case errors.Is(err, ErrInsufficientFunds):
		metrics.SpinFailuresTotal.WithLabelValues("insufficient_funds").Inc()

		render.Status(r, http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("insufficient_funds", http.StatusPaymentRequired))
	case errors.Is(err, seed.ErrNoActiveSeed):
		metrics.SpinFailuresTotal.WithLabelValues("no_active_seed").Inc()

		log.Error("no active seed, rotation required", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no_active_seed", http.StatusInternalServerError))
	default:
		metrics.SpinFailuresTotal.WithLabelValues("internal").Inc()

		log.Error("spin failed", sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("spin failed", http.StatusInternalServerError))
	}
}

func (h *Handler) recordSettlement(result *Result) {
	metrics.SpinsTotal.WithLabelValues(string(result.Spin.Color)).Inc()
	metrics.StakedCentsTotal.Add(float64(result.Spin.TotalBet))
	metrics.PaidOutCentsTotal.Add(float64(result.Spin.TotalWin))

	job.Dispatch(&job.SpinSettledJob{
		Publisher: h.publisher,
		Audit:     h.audit,
		Channel:   h.eventChannel,
		Event: producer.SpinSettled{
			SpinID:         result.Spin.ID,
			UserID:         result.Spin.UserID,
			Nonce:          result.Spin.Nonce,
			Number:         result.Spin.Number,
			Color:          string(result.Spin.Color),
			TotalBetCents:  result.Spin.TotalBet,
			TotalWinCents:  result.Spin.TotalWin,
			Hmac:           result.Spin.Hmac,
			ServerSeedHash: result.ServerSeedHash,
		},
		Log: h.log,
	}, 0)

	job.Dispatch(&job.BalanceChangedJob{
		Publisher: h.publisher,
		Channel:   h.eventChannel,
		UserID:    result.Spin.UserID,
		Balance:   result.NewBalance,
		Operation: string(config.Outcome),
		Log:       h.log,
	}, 0)
}

type historyResponse struct {
	response.Response
	Spins []repository.SpinWithBets `json:"spins"`
}

func (h *Handler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roulette.spin.History"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID := auth.UserIDFromContext(r.Context())

		limit := queryInt(r, "limit", defaultHistoryLimit)
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		offset := queryInt(r, "offset", 0)

		spins, err := h.spinRep.HistoryByUser(userID, limit, offset)
		if err != nil {
			log.Error("failed to load spin history", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to load spin history", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, historyResponse{Response: response.OK(), Spins: spins})
	}
}

type nonceResponse struct {
	response.Response
	NextNonce int64 `json:"next_nonce"`
}

// Nonce reports the nonce the next spin must carry, letting clients
// resynchronize after an invalid_nonce rejection.
func (h *Handler) Nonce() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roulette.spin.Nonce"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID := auth.UserIDFromContext(r.Context())

		ledger, err := h.balanceRep.FindUserBalanceByID(userID)
		if err != nil {
			log.Error("failed to load ledger", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to load ledger", http.StatusInternalServerError))

			return
		}

		var lastNonce int64
		if ledger != nil {
			lastNonce = ledger.LastNonce
		}

		render.JSON(w, r, nonceResponse{Response: response.OK(), NextNonce: lastNonce + 1})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}

	return v
}
