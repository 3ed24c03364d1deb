package rest

import (
	"net/http"

	"github.com/dmitrijs2005/levelup/internal/server/services"
)

func (h *Handlers) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req services.PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusCreated)(h.Orders.PlaceOrder(r.Context(), req))
}

func (h *Handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Orders.ListOrders(r.Context()))
}

func (h *Handlers) listOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Orders.ListOrdersByUser(r.Context(), userID))
}

func (h *Handlers) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Orders.GetOrder(r.Context(), id))
}

func (h *Handlers) listOrderItems(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Orders.ListOrderItems(r.Context(), id))
}

func (h *Handlers) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req services.UpdateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Orders.UpdateOrder(r.Context(), id, req))
}

func (h *Handlers) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	noContent(w, r, h.logger, h.Orders.DeleteOrder(r.Context(), id))
}
