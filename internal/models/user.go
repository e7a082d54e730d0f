package models

import "time"

type User struct {
	ID        int       `json:"id" example:"1"`
	Name      string    `json:"name" example:"John Doe"`
	Email     string    `json:"email" example:"user@example.com"`
	CPF       string    `json:"cpf" example:"12345678901"`
	BirthDate string    `json:"birth_date" example:"1990-05-20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
