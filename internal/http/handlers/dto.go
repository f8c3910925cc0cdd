package handlers

import (
	"time"

	"charityfund/internal/domain"
)

type projectDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	FullAmount     int64      `json:"full_amount"`
	InvestedAmount int64      `json:"invested_amount"`
	FullyInvested  bool       `json:"fully_invested"`
	CreateDate     time.Time  `json:"create_date"`
	CloseDate      *time.Time `json:"close_date"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	return projectDTO{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		FullAmount:     p.FullAmount,
		InvestedAmount: p.InvestedAmount,
		FullyInvested:  p.FullyInvested,
		CreateDate:     p.CreateDate,
		CloseDate:      p.CloseDate,
	}
}

func toProjectDTOs(items []*domain.Project) []projectDTO {
	out := make([]projectDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toProjectDTO(p))
	}
	return out
}

type donationDTO struct {
	ID             string     `json:"id"`
	UserID         *string    `json:"user_id"`
	Comment        string     `json:"comment,omitempty"`
	Country        string     `json:"country,omitempty"`
	FullAmount     int64      `json:"full_amount"`
	InvestedAmount int64      `json:"invested_amount"`
	FullyInvested  bool       `json:"fully_invested"`
	CreateDate     time.Time  `json:"create_date"`
	CloseDate      *time.Time `json:"close_date"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	dto := donationDTO{
		ID:             d.ID.String(),
		Comment:        d.Comment,
		Country:        d.Country,
		FullAmount:     d.FullAmount,
		InvestedAmount: d.InvestedAmount,
		FullyInvested:  d.FullyInvested,
		CreateDate:     d.CreateDate,
		CloseDate:      d.CloseDate,
	}
	if d.UserID != nil {
		s := d.UserID.String()
		dto.UserID = &s
	}
	return dto
}

func toDonationDTOs(items []*domain.Donation) []donationDTO {
	out := make([]donationDTO, 0, len(items))
	for _, d := range items {
		out = append(out, toDonationDTO(d))
	}
	return out
}
