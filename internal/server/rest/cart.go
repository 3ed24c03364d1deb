package rest

import (
	"net/http"
)

type addToCartRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type favoriteRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

// pairParams reads the {userId}/{productId} composite key from the path.
func pairParams(r *http.Request) (int64, int64, error) {
	userID, err := int64Param(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	productID, err := int64Param(r, "productId")
	if err != nil {
		return 0, 0, err
	}
	return userID, productID, nil
}

func (h *Handlers) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusCreated)(h.Carts.AddToCart(r.Context(), req.UserID, req.ProductID, req.Quantity))
}

func (h *Handlers) listCart(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Carts.ListCart(r.Context(), userID))
}

func (h *Handlers) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	noContent(w, r, h.logger, h.Carts.ClearCart(r.Context(), userID))
}

func (h *Handlers) updateCartQuantity(w http.ResponseWriter, r *http.Request) {
	userID, productID, err := pairParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Carts.UpdateQuantity(r.Context(), userID, productID, req.Quantity))
}

func (h *Handlers) removeCartLine(w http.ResponseWriter, r *http.Request) {
	userID, productID, err := pairParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	noContent(w, r, h.logger, h.Carts.RemoveLine(r.Context(), userID, productID))
}

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Favorites.ListAll(r.Context()))
}

func (h *Handlers) listFavoritesByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Favorites.ListByUser(r.Context(), userID))
}

func (h *Handlers) listFavoritesByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := int64Param(r, "productId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Favorites.ListByProduct(r.Context(), productID))
}

func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusCreated)(h.Favorites.AddFavorite(r.Context(), req.UserID, req.ProductID))
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, productID, err := pairParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	noContent(w, r, h.logger, h.Favorites.RemoveFavorite(r.Context(), userID, productID))
}
