package controllers

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/foureyes/foureyes/internal/engine"
	"github.com/foureyes/foureyes/internal/util"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
)

// ActionsController exposes the maker-checker lifecycle over HTTP.
type ActionsController struct {
	AuthController
	Actions engine.ActionService
}

func NewActionsController(actions engine.ActionService, userRepo engine.UserRepo) *ActionsController {
	return &ActionsController{Actions: actions, AuthController: AuthController{
		UserRepo: userRepo,
	}}
}

// submitActionBody is what a maker posts; the maker id always comes from
// the authenticated context.
type submitActionBody struct {
	ActionType string          `json:"actionType"`
	Payload    json.RawMessage `json:"payload"`
}

func (c *ActionsController) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	body, err := util.DecodeJSONBody[submitActionBody](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	action, err := c.Actions.Submit(r.Context(), models.SubmitActionRequest{
		ActionType: body.ActionType,
		Payload:    body.Payload,
		MakerID:    usernameFromContext(r.Context()),
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusCreated, models.MapActionToApiResponse(action))
}

func (c *ActionsController) handleGetAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	action, err := c.Actions.Get(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.MapActionToApiResponse(action))
}

func (c *ActionsController) handleSearchActions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.SearchActionsRequest{
		Status:     q.Get("status"),
		ActionType: q.Get("actionType"),
	}
	if v := q.Get("page"); v != "" {
		req.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("pageSize"); v != "" {
		req.PageSize, _ = strconv.Atoi(v)
	}
	resp, err := c.Actions.Search(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, resp)
}

type decisionBody struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment,omitempty"`
}

func (c *ActionsController) handleDecideAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	body, err := util.DecodeJSONBody[decisionBody](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	action, err := c.Actions.Decide(r.Context(), models.DecisionRequest{
		ActionID:  id,
		CheckerID: usernameFromContext(r.Context()),
		Decision:  body.Decision,
		Comment:   body.Comment,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.MapActionToApiResponse(action))
}

func (c *ActionsController) handleGetActionTypes(w http.ResponseWriter, r *http.Request) {
	util.WriteJSONResponse(w, http.StatusOK, c.Actions.ActionTypes())
}

// writeEngineError maps the structured error taxonomy onto HTTP statuses
// and serialises the error itself so callers can branch on kind.
func writeEngineError(w http.ResponseWriter, err error) {
	var ce *core.Error
	if !goerrors.As(err, &ce) {
		slog.Error("Engine call failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch ce.Kind {
	case core.KindValidation, core.KindUnknownActionType:
		status = http.StatusBadRequest
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindSelfReview:
		status = http.StatusForbidden
	case core.KindAlreadyDecided:
		status = http.StatusConflict
	case core.KindExecution:
		status = http.StatusUnprocessableEntity
	}
	util.WriteJSONResponse(w, status, ce)
}
