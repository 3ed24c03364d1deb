package rest

import (
	"net/http"

	"github.com/dmitrijs2005/levelup/internal/server/services"
)

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListProducts(r.Context()))
}

func (h *Handlers) listActiveProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListActiveProducts(r.Context()))
}

func (h *Handlers) listDiscontinuedProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListDiscontinuedProducts(r.Context()))
}

func (h *Handlers) listProductsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "categoryId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListProductsByCategory(r.Context(), id))
}

func (h *Handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusCreated)(h.Catalog.CreateProduct(r.Context(), in))
}

func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.GetProduct(r.Context(), id))
}

func (h *Handlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in services.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.UpdateProduct(r.Context(), id, in))
}

func (h *Handlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	noContent(w, r, h.logger, h.Catalog.DeleteProduct(r.Context(), id))
}

func (h *Handlers) listProductTags(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListProductTags(r.Context(), id))
}

func (h *Handlers) listProductImages(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListProductImages(r.Context(), id))
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Catalog.ListCategories(r.Context()))
}

func (h *Handlers) discontinueProduct(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	v, err := h.Lifecycle.DiscontinueProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.auditAdmin(r, "discontinue_product", id)
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) reactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	v, err := h.Lifecycle.ReactivateProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.auditAdmin(r, "reactivate_product", id)
	writeJSON(w, http.StatusOK, v)
}

type imageURLResponse struct {
	URL string `json:"url"`
}

func (h *Handlers) presignImageUpload(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusCreated)(h.Images.PresignUpload(r.Context(), id))
}

func (h *Handlers) presignImageDownload(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	url, err := h.Images.PresignDownload(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, imageURLResponse{URL: url})
}
