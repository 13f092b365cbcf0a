package balance

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/event"
	"github.com/fentashot/casino/internal/http-server/handlers/job"
	"github.com/fentashot/casino/internal/http-server/handlers/mysql"
	"github.com/fentashot/casino/internal/http-server/middleware/auth"
	resp "github.com/fentashot/casino/internal/lib/api/response"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/repository"
)

type Balance struct {
	log             *slog.Logger
	validator       *validator.Validate
	balanceRep      *repository.UserBalanceRepository
	dbhandler       *mysql.Handler
	publisher       *event.RedisEvent
	eventChannel    string
	startingBalance int64
}

func New(
	log *slog.Logger,
	balanceRep *repository.UserBalanceRepository,
	dbhandler *mysql.Handler,
	publisher *event.RedisEvent,
	eventChannel string,
	startingBalance int64,
) *Balance {
	return &Balance{
		log:             log,
		validator:       validator.New(),
		balanceRep:      balanceRep,
		dbhandler:       dbhandler,
		publisher:       publisher,
		eventChannel:    eventChannel,
		startingBalance: startingBalance,
	}
}

type balanceResponse struct {
	resp.Response
	Balance   int64 `json:"balance"`
	LastNonce int64 `json:"last_nonce"`
}

// Get returns the caller's ledger, creating it with the starting
// balance on first sight.
func (b *Balance) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.balance.Get"

		log := b.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID := auth.UserIDFromContext(r.Context())

		ledger, err := b.balanceRep.FindUserBalanceByID(userID)
		if err != nil {
			log.Error("failed to find user balance", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to find user balance", http.StatusInternalServerError))

			return
		}

		if ledger == nil {
			err = b.dbhandler.WithinTransaction(r.Context(), func(tx *sql.Tx) error {
				created, lockErr := b.balanceRep.LockLedger(tx, userID, b.startingBalance)
				if lockErr != nil {
					return lockErr
				}

				ledger = created

				return nil
			})
			if err != nil {
				log.Error("failed to create user balance", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("failed to create user balance", http.StatusInternalServerError))

				return
			}

			log.Info("ledger created", sl.String("user_id", userID))
		}

		render.JSON(w, r, balanceResponse{
			Response:  resp.OK(),
			Balance:   ledger.Balance,
			LastNonce: ledger.LastNonce,
		})
	}
}

type adjustRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Delta  int64  `json:"delta" validate:"required"`
}

// Adjust applies an administrative balance change, the only balance
// mutation allowed outside the spin transaction.
func (b *Balance) Adjust() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.balance.Adjust"

		log := b.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req adjustRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := b.validator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		var newBalance int64

		err := b.dbhandler.WithinTransaction(r.Context(), func(tx *sql.Tx) error {
			ledger, lockErr := b.balanceRep.LockLedger(tx, req.UserID, b.startingBalance)
			if lockErr != nil {
				return lockErr
			}

			if adjErr := b.balanceRep.AdjustBalance(tx, req.UserID, req.Delta); adjErr != nil {
				return adjErr
			}

			newBalance = ledger.Balance + req.Delta

			return nil
		})
		if err != nil {
			log.Error("failed to adjust balance", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to adjust balance", http.StatusInternalServerError))

			return
		}

		log.Info("balance adjusted",
			sl.String("user_id", req.UserID),
			sl.Int64("delta", req.Delta))

		job.Dispatch(&job.BalanceChangedJob{
			Publisher: b.publisher,
			Channel:   b.eventChannel,
			UserID:    req.UserID,
			Balance:   newBalance,
			Operation: string(config.Adjustment),
			Log:       b.log,
		}, 0)

		render.JSON(w, r, balanceResponse{Response: resp.OK(), Balance: newBalance})
	}
}
