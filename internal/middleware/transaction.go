package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// bufferedWriter holds the response back until the transaction outcome is known
type bufferedWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
	sent   bool
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *bufferedWriter) flush() {
	if w.status == 0 {
		return
	}
	w.sent = true
	w.ResponseWriter.WriteHeader(w.status)
	if _, err := w.ResponseWriter.Write(w.body.Bytes()); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}

// Transactional runs the handler inside one database transaction. It commits when the
// handler returns no error and a status below 400, and rolls back otherwise, including
// on panic. The response is sent only after the commit succeeds.
func Transactional(txManager domain.TxManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, tx, err := txManager.Begin(req.Context())
			if err != nil {
				log.Error().Err(err).Str("path", req.URL.Path).Msg("Failed to begin transaction")
				return c.JSON(http.StatusInternalServerError, problemBody(http.StatusInternalServerError,
					errorTypeInternal, "Internal Server Error", "Internal server error", req.URL.Path))
			}

			res := c.Response()
			original := res.Writer
			buffered := &bufferedWriter{ResponseWriter: original}
			res.Writer = buffered
			c.SetRequest(req.WithContext(ctx))

			committed := false
			defer func() {
				res.Writer = original
				if !buffered.sent {
					// Nothing reached the client, so a recovering error handler may still respond
					res.Committed = false
					res.Status = http.StatusOK
					res.Size = 0
				}
				if !committed {
					if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
						log.Error().Err(rbErr).Msg("Failed to roll back transaction")
					}
				}
			}()

			if err := next(c); err != nil {
				buffered.flush()
				return err
			}

			if res.Status >= http.StatusBadRequest {
				buffered.flush()
				return nil
			}

			if err := tx.Commit(ctx); err != nil {
				log.Error().Err(err).Str("path", req.URL.Path).Msg("Failed to commit transaction")
				buffered.sent = true
				original.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				original.WriteHeader(http.StatusInternalServerError)
				res.Status = http.StatusInternalServerError
				if encErr := json.NewEncoder(original).Encode(problemBody(http.StatusInternalServerError,
					errorTypeInternal, "Internal Server Error", "Internal server error", req.URL.Path)); encErr != nil {
					log.Debug().Err(encErr).Msg("Failed to write response")
				}
				return nil
			}
			committed = true

			buffered.flush()
			return nil
		}
	}
}
