package dto

import "github.com/fekuna/omnipos-billing-service/internal/model"

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResult struct {
	Token   string         `json:"token"`
	Session *model.Session `json:"session"`
}

type CreateOperatorInput struct {
	Email    string
	Name     string
	Password string
	Role     model.Role
}
