package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/perfreview/goalflow/internal/model"
)

// MemoryGoalRepository keeps goals in process memory, in insertion order.
// It is meant for tests and single-process demos; every method is safe for concurrent use.
type MemoryGoalRepository struct {
	mu    sync.Mutex
	order []string
	goals map[string]*model.Goal
}

func NewMemoryGoalRepository() *MemoryGoalRepository {
	return &MemoryGoalRepository{
		goals: make(map[string]*model.Goal),
	}
}

func (r *MemoryGoalRepository) Create(_ context.Context, goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	stored := copyGoal(goal)
	r.goals[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return nil
}

func (r *MemoryGoalRepository) ByID(_ context.Context, goalID string) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal, ok := r.goals[goalID]
	if !ok {
		return nil, ErrGoalNotFound
	}
	return copyGoal(goal), nil
}

func (r *MemoryGoalRepository) Goals(_ context.Context, filter model.GoalFilter) ([]*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals := []*model.Goal{}
	for _, id := range r.order {
		goal := r.goals[id]
		if filter.Match(goal) {
			goals = append(goals, copyGoal(goal))
		}
	}
	return goals, nil
}

func (r *MemoryGoalRepository) Update(_ context.Context, goalID string, patch model.GoalPatch) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal, ok := r.goals[goalID]
	if !ok {
		return nil, ErrGoalNotFound
	}
	if patch.ExpectStatus != nil && goal.Status != *patch.ExpectStatus {
		return nil, ErrStatusConflict
	}
	if patch.ExpectStep != nil && goal.CurrentStep != *patch.ExpectStep {
		return nil, ErrStatusConflict
	}

	patch.Apply(goal)
	goal.UpdatedAt = time.Now()
	return copyGoal(goal), nil
}

func (r *MemoryGoalRepository) Delete(_ context.Context, goalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[goalID]; !ok {
		return ErrGoalNotFound
	}

	delete(r.goals, goalID)
	for i, id := range r.order {
		if id == goalID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyGoal(g *model.Goal) *model.Goal {
	c := *g
	if g.Deadline != nil {
		d := *g.Deadline
		c.Deadline = &d
	}
	if g.Feedback != nil {
		f := *g.Feedback
		c.Feedback = &f
	}
	return &c
}

// MemoryNotificationRepository is the in-process counterpart of the notifications table.
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []*model.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Read = false
	n.CreatedAt = time.Now()

	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *MemoryNotificationRepository) ByRecipient(_ context.Context, recipientID string) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications := []*model.Notification{}
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.RecipientID == recipientID {
			c := *n
			notifications = append(notifications, &c)
		}
	}
	return notifications, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == notificationID {
			n.Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (r *MemoryNotificationRepository) CountUnread(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	order []string
	users map[string]*model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	r.users[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return nil
}

func (r *MemoryUserRepository) ByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *user
	return &c, nil
}

func (r *MemoryUserRepository) Users(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.order))
	for _, id := range r.order {
		c := *r.users[id]
		users = append(users, &c)
	}
	return users, nil
}

// MemoryGoalEntryRepository keeps progress steps per goal.
type MemoryGoalEntryRepository struct {
	mu      sync.Mutex
	entries map[string][]*model.GoalEntry
}

func NewMemoryGoalEntryRepository() *MemoryGoalEntryRepository {
	return &MemoryGoalEntryRepository{
		entries: make(map[string][]*model.GoalEntry),
	}
}

func (r *MemoryGoalEntryRepository) Create(_ context.Context, entry *model.GoalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries[entry.GoalID] {
		if e.Step == entry.Step {
			return ErrDuplicateStep
		}
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	stored := *entry
	r.entries[entry.GoalID] = append(r.entries[entry.GoalID], &stored)
	return nil
}

func (r *MemoryGoalEntryRepository) Entries(_ context.Context, goalID string) ([]*model.GoalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]*model.GoalEntry, 0, len(r.entries[goalID]))
	for _, e := range r.entries[goalID] {
		c := *e
		entries = append(entries, &c)
	}
	slices.SortFunc(entries, func(a, b *model.GoalEntry) int {
		return a.Step - b.Step
	})
	return entries, nil
}

var (
	_ GoalEntryRepository    = (*MemoryGoalEntryRepository)(nil)
	_ GoalRepository         = (*MemoryGoalRepository)(nil)
	_ NotificationRepository = (*MemoryNotificationRepository)(nil)
	_ UserRepository         = (*MemoryUserRepository)(nil)
)
