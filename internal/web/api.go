package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/storefront/internal/cart"
)

type cartItemResponse struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Image     string      `json:"image"`
	Quantity  int         `json:"quantity"`
	LineTotal json.Number `json:"lineTotal"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	Total     json.Number        `json:"total"`
	Currency  string             `json:"currency"`
	ItemCount int                `json:"itemCount"`
}

func (s *server) apiCart(w http.ResponseWriter, r *http.Request) {
	snapshot := cart.FromContext(r.Context()).Cart()
	total := snapshot.Total()

	resp := cartResponse{
		Items:     make([]cartItemResponse, 0, len(snapshot.Items)),
		Total:     json.Number(total.Amount.StringFixed(2)),
		Currency:  total.Currency.String(),
		ItemCount: snapshot.ItemCount(),
	}
	for _, item := range snapshot.Items {
		resp.Items = append(resp.Items, cartItemResponse{
			ID:        item.ProductID,
			Title:     item.Title,
			Price:     json.Number(item.Price.Amount.String()),
			Image:     item.Image,
			Quantity:  item.Quantity,
			LineTotal: json.Number(item.LineTotal().Amount.StringFixed(2)),
		})
	}

	respondJSON(w, s.logger, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encode response", "error", err)
	}
}
