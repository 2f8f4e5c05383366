package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/perfreview/goalflow/internal/ctxkeys"
	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/service"
	"github.com/perfreview/goalflow/internal/validation"
)

type GoalHandler struct {
	goalService *service.GoalService
	userService *service.UserService
}

func NewGoalHandler(goalService *service.GoalService, userService *service.UserService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		userService: userService,
	}
}

// flexString accepts a JSON string or number. Older clients send priority as 0, 1 or 2.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	var s string
	if data[0] == '"' {
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
	} else {
		var n json.Number
		err := json.Unmarshal(data, &n)
		if err != nil {
			return err
		}
		s = n.String()
	}

	*f = flexString(s)
	return nil
}

type submitGoalRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    string     `json:"deadline"`
	Priority    flexString `json:"priority"`
	ManagerID   string     `json:"managerId"`
}

type decisionRequest struct {
	Status   model.GoalStatus `json:"status"`
	Feedback string           `json:"feedback"`
}

type progressRequest struct {
	Step int    `json:"step"`
	Note string `json:"note"`
}

func (h *GoalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var req submitGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	var deadline *time.Time
	if strings.TrimSpace(req.Deadline) != "" {
		parsed, err := validation.ParseDeadline(req.Deadline)
		if err != nil {
			RespondError(w, r, &service.ValidationError{Field: "deadline", Message: err.Error()})
			return
		}
		deadline = &parsed
	}

	// Without an explicit reviewer the goal goes to the owner's manager from the directory
	managerID := strings.TrimSpace(req.ManagerID)
	if managerID == "" {
		managerID, err = h.userService.ManagerOf(r.Context(), actor.UserID)
		if err != nil {
			RespondError(w, r, err)
			return
		}
	}

	goal, err := h.goalService.Submit(r.Context(), service.SubmitGoalInput{
		OwnerID:     actor.UserID,
		ManagerID:   managerID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Priority:    model.Priority(req.Priority),
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, goal)
}

// List returns goals filtered by ?owner= and ?status=. Employees only see their own goals.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	filter := model.GoalFilter{
		OwnerID: r.URL.Query().Get("owner"),
		Status:  model.GoalStatus(r.URL.Query().Get("status")),
	}

	if !actor.Role.CanReview() {
		if filter.OwnerID != "" && filter.OwnerID != actor.UserID {
			RespondError(w, r, service.ErrForbidden)
			return
		}
		filter.OwnerID = actor.UserID
	}

	goals, err := h.goalService.List(r.Context(), filter)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	if goals == nil {
		goals = []*model.Goal{}
	}
	RespondSuccess(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, ok := h.accessibleGoal(w, r)
	if !ok {
		return
	}
	RespondSuccess(w, http.StatusOK, goal)
}

// Decide approves or rejects a goal. Routes restrict it to reviewers.
func (h *GoalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())
	goalID := r.PathValue("id")

	var req decisionRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	goal, err := h.goalService.Decide(r.Context(), goalID, actor.UserID, req.Status, req.Feedback)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondSuccess(w, http.StatusOK, goal)
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	goal, ok := h.accessibleGoal(w, r)
	if !ok {
		return
	}

	goal, err := h.goalService.MarkCompleted(r.Context(), goal.ID, actor.UserID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondSuccess(w, http.StatusOK, goal)
}

// RecordProgress advances the actor's own goal by one step.
func (h *GoalHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	var req progressRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	goal, err := h.goalService.RecordProgress(r.Context(), r.PathValue("id"), actor.UserID, req.Step, req.Note)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondSuccess(w, http.StatusOK, goal)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	goal, ok := h.accessibleGoal(w, r)
	if !ok {
		return
	}

	entries, err := h.goalService.Progress(r.Context(), goal.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondSuccess(w, http.StatusOK, entries)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	goal, ok := h.accessibleGoal(w, r)
	if !ok {
		return
	}

	err := h.goalService.Delete(r.Context(), goal.ID, actor.UserID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// accessibleGoal loads the goal named in the path and checks that the actor owns it or is a reviewer.
func (h *GoalHandler) accessibleGoal(w http.ResponseWriter, r *http.Request) (*model.Goal, bool) {
	actor := ctxkeys.Actor(r.Context())

	goal, err := h.goalService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondError(w, r, err)
		return nil, false
	}

	if goal.OwnerID != actor.UserID && !actor.Role.CanReview() {
		RespondError(w, r, service.ErrForbidden)
		return nil, false
	}

	return goal, true
}
