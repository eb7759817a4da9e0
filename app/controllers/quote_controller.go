package controllers

import (
	"net/http"

	"folio/app/models"
	"folio/app/render"
	"folio/app/services"
)

// QuoteController serves the front page and the quote API.
type QuoteController struct {
	quoteService *services.QuoteService
	renderer     *render.Renderer
}

func NewQuoteController(quoteService *services.QuoteService, renderer *render.Renderer) *QuoteController {
	return &QuoteController{
		quoteService: quoteService,
		renderer:     renderer,
	}
}

// Home renders the portfolio front page with the quote of the day.
func (qc *QuoteController) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(qc.renderer, w, r, http.StatusOK, "home", render.TemplateData{
		Data: qc.quoteService.GetQuote(r.Context()),
	})
}

// APIShow returns the current quote.
func (qc *QuoteController) APIShow(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, qc.quoteService.GetQuote(r.Context()))
}

// APIUpdate sets the quote of the day.
func (qc *QuoteController) APIUpdate(w http.ResponseWriter, r *http.Request) {
	var quote models.DailyQuote
	if !decodeJSON(w, r, &quote) {
		return
	}

	saved, err := qc.quoteService.SaveQuote(r.Context(), quote)
	if err != nil {
		sendError(w, r, err.Error(), statusFor(err))
		return
	}
	sendJSON(w, http.StatusOK, saved)
}
