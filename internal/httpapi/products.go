package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

func (h *Handler) ListActiveProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, lo.Map(products, mapProductToResponseIdx))
}

func (h *Handler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, lo.Map(products, mapProductToResponseIdx))
}

// SaveProduct creates or replaces a product.
func (h *Handler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	input, err := mapProductRequestToInput(req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	product, err := h.products.Save(r.Context(), r.Header.Get("Authorization"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, mapProductToResponse(product))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), r.Header.Get("Authorization"), mux.Vars(r)["id"]); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
