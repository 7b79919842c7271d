package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

type handler struct {
	svc   interfaces.EngineFacade
	store interfaces.TransactionStore
}

type validateRequest struct {
	Transaction domain.Transaction  `json:"transaction"`
	Before      *domain.Transaction `json:"before,omitempty"`
}

type autoApplyResponse struct {
	Transaction domain.Transaction `json:"transaction"`
	Stamped     []string           `json:"stamped"`
	Delta       json.RawMessage    `json:"delta"`
}

func (h *handler) evaluate(c echo.Context) error {
	var tx domain.Transaction
	if err := c.Bind(&tx); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	tx.CalculateTotals()
	res, err := h.svc.Evaluate(c.Request().Context(), &tx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handler) autoApply(c echo.Context) error {
	var tx domain.Transaction
	if err := c.Bind(&tx); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	tx.CalculateTotals()
	before, err := infrastructure.CloneTransaction(tx)
	if err != nil {
		return respondError(c, err)
	}
	stamped, err := h.svc.AutoApply(c.Request().Context(), &tx)
	if err != nil {
		return respondError(c, err)
	}
	tx.CalculateTotals()
	delta, err := infrastructure.MergeDelta(before, tx)
	if err != nil {
		return respondError(c, err)
	}
	if stamped == nil {
		stamped = []string{}
	}
	return c.JSON(http.StatusOK, autoApplyResponse{Transaction: tx, Stamped: stamped, Delta: delta})
}

func (h *handler) validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	req.Transaction.CalculateTotals()
	if err := h.svc.Validate(c.Request().Context(), &req.Transaction, req.Before); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"valid": true, "transaction": req.Transaction})
}

func (h *handler) save(c echo.Context) error {
	var tx domain.Transaction
	if err := c.Bind(&tx); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if tx.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "transaction name is required"})
	}
	if err := h.svc.Save(c.Request().Context(), &tx); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

func (h *handler) get(c echo.Context) error {
	tx, err := h.store.LoadTransaction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

// patch aplica operações RFC 6902 à transação gravada e corre o ciclo de gravação.
func (h *handler) patch(c echo.Context) error {
	ctx := c.Request().Context()
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid patch request"})
	}
	stored, err := h.store.LoadTransaction(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	updated, err := infrastructure.ApplyTransactionPatch(*stored, body)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	updated.Name = stored.Name
	updated.Revision = stored.Revision
	if err := h.svc.Save(ctx, &updated); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *handler) applyScheme(c echo.Context) error {
	ctx := c.Request().Context()
	var req domain.ApplySchemeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	tx, err := h.store.LoadTransaction(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	logging.Info("manual scheme request",
		zap.String("transaction", tx.Name),
		zap.String("rule", req.Rule),
		zap.String("actor", actor(c)))
	if err := h.svc.ApplyScheme(ctx, tx, req); err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Save(ctx, tx); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

func (h *handler) removeRule(c echo.Context) error {
	ctx := c.Request().Context()
	logging.Info("remove scheme request",
		zap.String("transaction", c.Param("id")),
		zap.String("rule", c.Param("rule")),
		zap.String("actor", actor(c)))
	if err := h.svc.RemoveRule(ctx, c.Param("id"), c.Param("rule")); err != nil {
		return respondError(c, err)
	}
	tx, err := h.store.LoadTransaction(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

// respondError traduz os erros do motor em respostas HTTP.
func respondError(c echo.Context, err error) error {
	var violation *domain.SchemeViolation
	switch {
	case errors.As(err, &violation):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"error": violation.Error(), "violation": violation})
	case errors.Is(err, domain.ErrTransactionNotFound), errors.Is(err, domain.ErrRuleNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotDraft), errors.Is(err, domain.ErrAlreadyProcessed):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSchemeNotApplicable), errors.Is(err, domain.ErrFreeQtyMismatch):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// actor devolve o "sub" do token JWT validado, quando existe.
func actor(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok || token == nil {
		return "anonymous"
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "anonymous"
	}
	return sub
}
