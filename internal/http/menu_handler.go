package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/valter-tonon/digimenu/internal/menu"
)

type MenuHandler struct {
	repo menu.RepoInterface
}

func NewMenuHandler(repo menu.RepoInterface) *MenuHandler {
	return &MenuHandler{repo: repo}
}

type AdditionalDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       float64         `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   bool            `json:"available"`
	Additionals []AdditionalDTO `json:"additionals,omitempty"`
}

func menuProductResponse(p menu.Product) MenuProductDTO {
	dto := MenuProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
	}
	for _, a := range p.Additionals {
		dto.Additionals = append(dto.Additionals, AdditionalDTO{
			ID:    a.ID,
			Name:  a.Name,
			Price: a.Price,
		})
	}
	return dto
}

func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetMenu(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load menu")
		return
	}

	resp := make([]MenuProductDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, menuProductResponse(*p))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, menuProductResponse(*product))
}