package controllers

import "net/http"

// RegisterRoutes wires the HTTP routes for this controller.
func (c *ActionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/actions", c.RequireAuth(c.handleSubmitAction))
	mux.HandleFunc("GET /api/actions", c.RequireAuth(c.handleSearchActions))
	mux.HandleFunc("GET /api/actions/{id}", c.RequireAuth(c.handleGetAction))
	mux.HandleFunc("POST /api/actions/{id}/decision", c.RequireAuth(c.handleDecideAction))
	mux.HandleFunc("GET /api/action-types", c.RequireAuth(c.handleGetActionTypes))
}

func (c *AuthController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", c.handleLogin)
	mux.HandleFunc("GET /logout", c.handleLogout)
}

func (c *UsersController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", c.RequireAuth(c.handleGetUsers))
}
