package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/bind"
	"github.com/shashiranjanraj/stockpile/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.service.Login(body.Username, body.Password)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, result)
}
