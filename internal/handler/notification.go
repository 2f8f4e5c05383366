package handler

import (
	"net/http"

	"github.com/perfreview/goalflow/internal/ctxkeys"
	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	notifications, err := h.notificationService.ListForRecipient(r.Context(), actor.UserID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}
	RespondSuccess(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	count, err := h.notificationService.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead only touches notifications addressed to the actor. Anything else reads as not found.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())
	notificationID := r.PathValue("id")

	notifications, err := h.notificationService.ListForRecipient(r.Context(), actor.UserID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	var target *model.Notification
	for _, n := range notifications {
		if n.ID == notificationID {
			target = n
			break
		}
	}
	if target == nil {
		RespondError(w, r, &service.NotFoundError{Entity: "notification", ID: notificationID})
		return
	}

	err = h.notificationService.MarkRead(r.Context(), notificationID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	target.Read = true
	RespondSuccess(w, http.StatusOK, target)
}
