package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"charityfund/internal/domain"
	"charityfund/internal/infra"
	"charityfund/internal/infra/geoip"
	"charityfund/internal/ledger"
	"charityfund/internal/store"
)

// Ledger is the workflow surface the handlers call. *ledger.Service
// implements it; tests substitute fakes.
type Ledger interface {
	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, patch ledger.ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	CreateDonation(ctx context.Context, d *domain.Donation) (*domain.Donation, error)
	ListDonations(ctx context.Context) ([]*domain.Donation, error)
	ListDonationsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error)
	Stats(ctx context.Context) (*store.FundingStats, error)
	Ping(ctx context.Context) error
}

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Ledger Ledger
	Logger infra.Logger
	GeoIP  geoip.CountryResolver
}

func NewApp(l Ledger, logger infra.Logger, resolver geoip.CountryResolver) *App {
	return &App{Ledger: l, Logger: logger, GeoIP: resolver}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": slug, "message": message}})
}
