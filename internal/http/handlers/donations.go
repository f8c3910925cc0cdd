package handlers

import (
	"encoding/json"
	"net"
	"net/http"

	"charityfund/internal/domain"
	"charityfund/internal/middleware"
)

type donationCreateRequest struct {
	FullAmount int64  `json:"full_amount"`
	Comment    string `json:"comment"`
}

// thankYou holds the localized acknowledgement returned on create.
var thankYou = map[string]string{
	"en": "Thank you for your donation!",
	"es": "¡Gracias por su donación!",
	"fr": "Merci pour votre don !",
	"de": "Vielen Dank für Ihre Spende!",
	"ru": "Спасибо за ваше пожертвование!",
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.FullAmount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "full_amount must be positive")
		return
	}

	donation := &domain.Donation{Comment: req.Comment}
	donation.FullAmount = req.FullAmount
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		donation.UserID = &userID
	}
	donation.Country = a.resolveCountry(r)

	created, err := a.Ledger.CreateDonation(r.Context(), donation)
	if err != nil {
		a.domainError(w, err, "failed to create donation")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	message, ok := thankYou[locale]
	if !ok {
		message = thankYou["en"]
	}
	a.json(w, http.StatusCreated, map[string]any{
		"donation": toDonationDTO(created),
		"message":  message,
	})
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Ledger.ListDonations(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to list donations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationDTOs(items)})
}

func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.Ledger.ListDonationsByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, err, "failed to list donations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationDTOs(items)})
}

// resolveCountry attributes the donation to a country when a GeoIP database
// is configured. Attribution is best effort and never blocks the donation.
func (a *App) resolveCountry(r *http.Request) string {
	if a.GeoIP == nil {
		return ""
	}
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	country, err := a.GeoIP.CountryCode(ip)
	if err != nil {
		a.Logger.Debug().Err(err).Str("ip", ip).Msg("country lookup failed")
		return ""
	}
	return country
}
