package model

import (
	"time"

	"github.com/google/uuid"
)

type Mother struct {
	Base
	Name             string     `db:"name" json:"name"`
	Address          string     `db:"address" json:"address"`
	Zone             string     `db:"zone" json:"zone"`
	ContactNumber    string     `db:"contact_number" json:"contact_number"`
	Email            string     `db:"email" json:"email,omitempty"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	ExpectedDelivery *time.Time `db:"expected_delivery" json:"expected_delivery,omitempty"`
	PregnancyMonth   int        `db:"pregnancy_month" json:"pregnancy_month"`
	PhotoKey         string     `db:"photo_key" json:"photo_key,omitempty"`
	UserID           *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
}

type CreateMotherRequest struct {
	Name             string     `json:"name" binding:"required"`
	Address          string     `json:"address" binding:"required"`
	Zone             string     `json:"zone" binding:"required,zone"`
	ContactNumber    string     `json:"contact_number" binding:"required"`
	Email            string     `json:"email" binding:"omitempty,email"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
	PregnancyMonth   int        `json:"pregnancy_month" binding:"min=0,max=10"`
}

type UpdateMotherRequest struct {
	Name             *string    `json:"name"`
	Address          *string    `json:"address"`
	Zone             *string    `json:"zone" binding:"omitempty,zone"`
	ContactNumber    *string    `json:"contact_number"`
	Email            *string    `json:"email" binding:"omitempty,email"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
	PregnancyMonth   *int       `json:"pregnancy_month" binding:"omitempty,min=0,max=10"`
}

type MotherFilters struct {
	Zone       string `form:"zone"`
	SearchTerm string `form:"search"`
	Pagination
}
