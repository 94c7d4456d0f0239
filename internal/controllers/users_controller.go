package controllers

import (
	"log/slog"
	"net/http"

	"github.com/foureyes/foureyes/internal/engine"
	"github.com/foureyes/foureyes/internal/util"
)

// UsersController is read-only: user creation goes through the approval
// flow, never through a direct endpoint.
type UsersController struct {
	AuthController
	UserRepo engine.UserRepo
}

func NewUsersController(userRepo engine.UserRepo) *UsersController {
	return &UsersController{
		UserRepo: userRepo,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

func (c *UsersController) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.UserRepo.FindAll()
	if err != nil {
		slog.Error("Failed to get users", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, users)
}
