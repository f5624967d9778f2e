package handler

import (
	"net/http"

	"github.com/fexhq/fex/internal/adapter/http/dto"
	"github.com/fexhq/fex/internal/usecase"
)

// RateHandler serves the public rate listings.
type RateHandler struct {
	rateUC *usecase.RateUseCase
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateUC *usecase.RateUseCase) *RateHandler {
	return &RateHandler{rateUC: rateUC}
}

// ListCryptoRates lists the active crypto rates.
func (h *RateHandler) ListCryptoRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateUC.ListCryptoRates(r.Context())
	if err != nil {
		writeUseCaseError(w, r, "failed to list rates", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CryptoRatesFromDomain(rates))
}

// ListBrands lists the supported gift card brands.
func (h *RateHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.rateUC.ListGiftCardBrands(r.Context())
	if err != nil {
		writeUseCaseError(w, r, "failed to list brands", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BrandsFromDomain(brands))
}
