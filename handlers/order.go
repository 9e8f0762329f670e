package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kantin-app/kantin/database/dbhelper"
	"github.com/kantin-app/kantin/middlewares"
	"github.com/kantin-app/kantin/models"
	"github.com/kantin-app/kantin/utils"
)

// Order access rules: customers see and touch only their own orders, and
// may edit or delete them only while still pending; admins see everything
// and are the only callers allowed to change status. Concurrent edits are
// last-write-wins; there is no version check. Line replacement and the
// total always land in one transaction, so a lost race never produces a
// total that disagrees with the lines.

var (
	errAccessDenied  = errors.New("access denied")
	errOrderLocked   = errors.New("cannot modify order after it has been processed")
	errDeleteLocked  = errors.New("cannot delete order after it has been processed")
	errEmptyOrder    = errors.New("order must contain at least one item")
	errBadQuantity   = errors.New("item quantity must be at least 1")
	errInvalidStatus = errors.New("invalid order status")
)

type orderLineInput struct {
	MenuID   uuid.UUID `json:"menu_id"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
}

type orderUpdateRequest struct {
	Status *models.OrderStatus `json:"status"`
	Items  []orderLineInput    `json:"items"`
	Notes  *string             `json:"notes"`
}

func ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized", err)
		return
	}

	var orders []*models.Order
	if claims.Role == models.RoleAdmin {
		orders, err = dbhelper.ListOrders()
	} else {
		orders, err = dbhelper.ListOrdersByUser(claims.UserID)
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching orders", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

func GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized", err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order id", err)
		return
	}

	order, err := dbhelper.GetOrder(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "order not found", nil)
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching order", err)
		return
	}

	if claims.Role != models.RoleAdmin && order.UserID != claims.UserID {
		utils.RespondError(w, http.StatusForbidden, "access denied", nil)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

// CreateOrder persists a new pending order owned by the caller. The total
// is computed from the caller-supplied unit prices; prices are not
// re-derived from the current catalog, so a stale menu never shifts an
// order's cost after the fact.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized", err)
		return
	}

	type request struct {
		Items []orderLineInput `json:"items"`
		Notes string           `json:"notes"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := validateOrderLines(req.Items); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	lines := toOrderLines(req.Items)
	order := models.Order{
		UserID:     claims.UserID,
		Items:      lines,
		TotalPrice: models.ComputeTotal(lines),
		Status:     models.StatusPending,
		Notes:      req.Notes,
	}
	if err := dbhelper.CreateOrder(&order); err != nil {
		logrus.Errorf("failed to create order: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "error creating order", err)
		return
	}

	created, err := dbhelper.GetOrder(order.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching order", err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   created,
	})
}

func UpdateOrder(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized", err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order id", err)
		return
	}

	var req orderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	order, err := dbhelper.GetOrder(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "order not found", nil)
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching order", err)
		return
	}

	statusChanged, err := applyOrderUpdate(claims, order, req)
	if err != nil {
		respondOrderRuleError(w, err)
		return
	}

	if statusChanged {
		err = dbhelper.UpdateOrderStatus(order.ID, order.Status)
	} else if claims.Role != models.RoleAdmin {
		err = dbhelper.SaveOrderLines(order)
	}
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "order not found", nil)
		return
	} else if err != nil {
		logrus.Errorf("failed to update order %s: %v", id, err)
		utils.RespondError(w, http.StatusInternalServerError, "error updating order", err)
		return
	}

	updated, err := dbhelper.GetOrder(order.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching order", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order updated successfully",
		"order":   updated,
	})
}

func DeleteOrder(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized", err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order id", err)
		return
	}

	order, err := dbhelper.GetOrder(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "order not found", nil)
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching order", err)
		return
	}

	if err := canDeleteOrder(claims, order); err != nil {
		respondOrderRuleError(w, err)
		return
	}

	if _, err := dbhelper.DeleteOrder(order.ID); err != nil {
		logrus.Errorf("failed to delete order %s: %v", id, err)
		utils.RespondError(w, http.StatusInternalServerError, "error deleting order", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Order deleted successfully",
	})
}

// applyOrderUpdate mutates the in-memory order per the role rules and
// reports whether the change is a status overwrite. Admin callers may only
// change status (any member of the status set; non-sequential moves are
// logged, not rejected). Customers may replace lines and notes on their own
// pending orders; a status field from a customer is ignored.
func applyOrderUpdate(claims *middlewares.Claims, order *models.Order, req orderUpdateRequest) (bool, error) {
	if claims.Role == models.RoleAdmin {
		if req.Status == nil {
			return false, nil
		}
		if !req.Status.IsValid() {
			return false, errInvalidStatus
		}
		if !models.ValidTransition(order.Status, *req.Status) {
			logrus.Warnf("order %s: non-sequential status change %s -> %s", order.ID, order.Status, *req.Status)
		}
		order.Status = *req.Status
		return true, nil
	}

	if order.UserID != claims.UserID {
		return false, errAccessDenied
	}
	if order.Status != models.StatusPending {
		return false, errOrderLocked
	}

	if req.Items != nil {
		if err := validateOrderLines(req.Items); err != nil {
			return false, err
		}
		order.Items = toOrderLines(req.Items)
		order.TotalPrice = models.ComputeTotal(order.Items)
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	return false, nil
}

// canDeleteOrder checks ownership and status gates; admins may delete at
// any status.
func canDeleteOrder(claims *middlewares.Claims, order *models.Order) error {
	if claims.Role == models.RoleAdmin {
		return nil
	}
	if order.UserID != claims.UserID {
		return errAccessDenied
	}
	if order.Status != models.StatusPending {
		return errDeleteLocked
	}
	return nil
}

func validateOrderLines(items []orderLineInput) error {
	if len(items) == 0 {
		return errEmptyOrder
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return errBadQuantity
		}
	}
	return nil
}

func toOrderLines(items []orderLineInput) []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderLine{
			MenuID:   it.MenuID,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return lines
}

func respondOrderRuleError(w http.ResponseWriter, err error) {
	switch err {
	case errAccessDenied:
		utils.RespondError(w, http.StatusForbidden, err.Error(), nil)
	case errOrderLocked, errDeleteLocked:
		utils.RespondError(w, http.StatusConflict, err.Error(), nil)
	default:
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
	}
}
