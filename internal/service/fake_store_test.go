// internal/service/fake_store_test.go
package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
	"github.com/mikelezc/proyecto-sherpa/internal/repository"
)

// fakeStore is an in-memory Store with the same observable semantics as
// the Postgres repository: one history row per mutation, idempotent
// assignment inserts, count-before-pagination listings.
type fakeStore struct {
	mu sync.RWMutex

	tasks        map[uuid.UUID]*models.Task
	users        map[uuid.UUID]*models.User
	templates    map[uuid.UUID]*models.TaskTemplate
	templateTags map[uuid.UUID][]uuid.UUID
	assignments  map[uuid.UUID][]*models.TaskAssignment
	comments     map[uuid.UUID]*models.Comment
	tags         map[uuid.UUID]*models.Tag
	teams        map[uuid.UUID]*models.Team
	teamMembers  map[uuid.UUID][]uuid.UUID
	taskTags     map[uuid.UUID][]uuid.UUID
	history      []*models.TaskHistory
	indexedAt    map[uuid.UUID]time.Time

	historySeq int64
	now        time.Time

	// Failure injection.
	historyErr error
	refreshErr error
}

var (
	_ Store   = (*fakeStore)(nil)
	_ Catalog = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:        make(map[uuid.UUID]*models.Task),
		users:        make(map[uuid.UUID]*models.User),
		templates:    make(map[uuid.UUID]*models.TaskTemplate),
		templateTags: make(map[uuid.UUID][]uuid.UUID),
		assignments:  make(map[uuid.UUID][]*models.TaskAssignment),
		comments:     make(map[uuid.UUID]*models.Comment),
		tags:         make(map[uuid.UUID]*models.Tag),
		teams:        make(map[uuid.UUID]*models.Team),
		teamMembers:  make(map[uuid.UUID][]uuid.UUID),
		taskTags:     make(map[uuid.UUID][]uuid.UUID),
		indexedAt:    make(map[uuid.UUID]time.Time),
		now:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) addUser(isStaff bool) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{
		ID:        uuid.New(),
		Username:  "user-" + uuid.NewString()[:8],
		Email:     uuid.NewString()[:8] + "@example.com",
		IsStaff:   isStaff,
		IsActive:  true,
		CreatedAt: f.now,
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addTemplate(tmpl models.TaskTemplate, tagIDs []uuid.UUID) *models.TaskTemplate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tmpl.ID == (uuid.UUID{}) {
		tmpl.ID = uuid.New()
	}
	tmpl.CreatedAt = f.now
	f.templates[tmpl.ID] = &tmpl
	f.templateTags[tmpl.ID] = tagIDs
	return &tmpl
}

func (f *fakeStore) historyFor(taskID uuid.UUID) []*models.TaskHistory {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*models.TaskHistory
	for _, h := range f.history {
		if h.TaskID == taskID {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeStore) appendHistory(taskID, userID uuid.UUID, action string, changes models.JSONMap) {
	if !models.ValidAction(action) {
		panic(fmt.Sprintf("unknown history action %q", action))
	}
	f.historySeq++
	f.history = append(f.history, &models.TaskHistory{
		ID:        f.historySeq,
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Changes:   changes,
		Timestamp: f.now,
	})
}

func (f *fakeStore) CreateTask(_ context.Context, in repository.CreateTaskInput) (*models.Task, []*models.TaskAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, nil, f.historyErr
	}
	for _, id := range in.AssigneeIDs {
		if _, ok := f.users[id]; !ok {
			return nil, nil, repository.ErrUserNotFound
		}
	}

	ts := f.tick()
	meta := in.Metadata
	if meta == nil {
		meta = models.JSONMap{}
	}
	t := &models.Task{
		ID:             uuid.New(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		DueAt:          in.DueAt,
		EstimatedHours: in.EstimatedHours,
		CreatedBy:      in.CreatedBy,
		Metadata:       meta,
		IsOverdue:      models.ComputeOverdue(in.DueAt, in.Status, ts),
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if in.ActualHours != nil {
		t.ActualHours = sql.NullFloat64{Float64: *in.ActualHours, Valid: true}
	}
	if in.TeamID != nil {
		t.TeamID = uuid.NullUUID{UUID: *in.TeamID, Valid: true}
	}
	if in.ParentTaskID != nil {
		t.ParentTaskID = uuid.NullUUID{UUID: *in.ParentTaskID, Valid: true}
	}
	f.tasks[t.ID] = t

	f.appendHistory(t.ID, in.CreatedBy, models.ActionCreated, models.JSONMap{"status": t.Status})

	created, _ := f.assignLocked(t.ID, in.AssigneeIDs, in.CreatedBy, in.PrimaryAssignee)
	f.taskTags[t.ID] = append([]uuid.UUID(nil), in.TagIDs...)

	cp := *t
	return &cp, created, nil
}

func (f *fakeStore) GetTask(_ context.Context, id uuid.UUID) (*models.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, id uuid.UUID, actorID uuid.UUID, in repository.UpdateTaskInput) (*models.Task, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, 0, repository.ErrTaskNotFound
	}
	if f.historyErr != nil {
		return nil, 0, f.historyErr
	}

	prev := *t
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueAt != nil {
		t.DueAt = *in.DueAt
	}
	if in.EstimatedHours != nil {
		t.EstimatedHours = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		t.ActualHours = sql.NullFloat64{Float64: *in.ActualHours, Valid: true}
	}
	if in.Metadata != nil {
		t.Metadata = in.Metadata
	}
	if in.TeamID != nil {
		t.TeamID = *in.TeamID
	}
	if in.ParentTaskID != nil {
		t.ParentTaskID = *in.ParentTaskID
	}
	ts := f.tick()
	t.IsOverdue = models.ComputeOverdue(t.DueAt, t.Status, ts)
	t.UpdatedAt = ts

	action := models.ActionUpdated
	if prev.Status != t.Status {
		action = models.ActionStatusChanged
	}
	f.appendHistory(id, actorID, action, prev.Changes(t))

	var created int
	if in.AssigneeIDs != nil {
		keep := make(map[uuid.UUID]bool, len(in.AssigneeIDs))
		for _, uid := range in.AssigneeIDs {
			keep[uid] = true
		}
		var remaining []*models.TaskAssignment
		for _, a := range f.assignments[id] {
			if keep[a.UserID] {
				remaining = append(remaining, a)
			} else {
				f.appendHistory(id, actorID, models.ActionUnassigned, models.JSONMap{"unassigned_user": a.UserID.String()})
			}
		}
		f.assignments[id] = remaining
		_, created = f.assignLocked(id, in.AssigneeIDs, actorID, true)
	}
	if in.TagIDs != nil {
		f.taskTags[id] = append([]uuid.UUID(nil), in.TagIDs...)
	}

	cp := *t
	return &cp, created, nil
}

func (f *fakeStore) SetArchived(_ context.Context, id uuid.UUID, archived bool, actorID uuid.UUID) (*models.Task, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, false, repository.ErrTaskNotFound
	}
	if t.IsArchived == archived {
		cp := *t
		return &cp, false, nil
	}
	t.IsArchived = archived
	t.UpdatedAt = f.tick()

	action := models.ActionArchived
	if !archived {
		action = models.ActionUnarchived
	}
	f.appendHistory(id, actorID, action, models.JSONMap{"is_archived": archived})
	cp := *t
	return &cp, true, nil
}

func (f *fakeStore) ListTasks(_ context.Context, filter repository.TaskFilter) ([]*models.Task, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var matched []*models.Task
	for _, t := range f.tasks {
		if !filter.IncludeArchived && t.IsArchived {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.TeamID != nil && (!t.TeamID.Valid || t.TeamID.UUID != *filter.TeamID) {
			continue
		}
		if filter.Overdue != nil && t.IsOverdue != *filter.Overdue {
			continue
		}
		if filter.AssigneeID != nil {
			found := false
			for _, a := range f.assignments[t.ID] {
				if a.UserID == *filter.AssigneeID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.TagName != "" {
			needle := strings.ToLower(filter.TagName)
			found := false
			for _, tagID := range f.taskTags[t.ID] {
				if tag, ok := f.tags[tagID]; ok && strings.Contains(strings.ToLower(tag.Name), needle) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(t.Title), needle) &&
				!strings.Contains(strings.ToLower(t.Description), needle) {
				continue
			}
		}
		cp := *t
		matched = append(matched, &cp)
	}

	dir := -1
	if strings.EqualFold(filter.SortOrder, "asc") {
		dir = 1
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filter.SortBy {
		case repository.SortByDueAt:
			if !a.DueAt.Equal(b.DueAt) {
				if dir == 1 {
					return a.DueAt.Before(b.DueAt)
				}
				return a.DueAt.After(b.DueAt)
			}
		case repository.SortByPriority:
			ra, rb := models.PriorityRank[a.Priority], models.PriorityRank[b.Priority]
			if ra != rb {
				if dir == 1 {
					return ra > rb
				}
				return ra < rb
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				if dir == 1 && filter.SortBy == repository.SortByCreatedAt {
					return a.CreatedAt.Before(b.CreatedAt)
				}
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeStore) ParentOf(_ context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	if !ok {
		return uuid.UUID{}, false, nil
	}
	if !t.ParentTaskID.Valid {
		return uuid.UUID{}, false, nil
	}
	return t.ParentTaskID.UUID, true, nil
}

func (f *fakeStore) DeleteArchivedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, t := range f.tasks {
		if t.IsArchived && t.UpdatedAt.Before(cutoff) {
			delete(f.tasks, id)
			delete(f.assignments, id)
			delete(f.taskTags, id)
			delete(f.indexedAt, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) AssignUsers(_ context.Context, taskID uuid.UUID, userIDs []uuid.UUID, assignedBy uuid.UUID, primary bool) ([]*models.TaskAssignment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[taskID]; !ok {
		return nil, 0, repository.ErrTaskNotFound
	}
	for _, id := range userIDs {
		if _, ok := f.users[id]; !ok {
			return nil, 0, repository.ErrUserNotFound
		}
	}
	out, created := f.assignLocked(taskID, userIDs, assignedBy, primary)
	return out, created, nil
}

// assignLocked mirrors the idempotent insert: existing pairs are returned
// untouched with no history row; only the first user of the batch may be
// primary.
func (f *fakeStore) assignLocked(taskID uuid.UUID, userIDs []uuid.UUID, assignedBy uuid.UUID, primary bool) ([]*models.TaskAssignment, int) {
	var (
		out     []*models.TaskAssignment
		created int
	)
	for i, uid := range userIDs {
		var existing *models.TaskAssignment
		for _, a := range f.assignments[taskID] {
			if a.UserID == uid {
				existing = a
				break
			}
		}
		if existing != nil {
			out = append(out, existing)
			continue
		}
		a := &models.TaskAssignment{
			ID:         uuid.New(),
			TaskID:     taskID,
			UserID:     uid,
			AssignedBy: assignedBy,
			IsPrimary:  primary && i == 0,
			AssignedAt: f.tick(),
		}
		f.assignments[taskID] = append(f.assignments[taskID], a)
		f.appendHistory(taskID, assignedBy, models.ActionAssigned, models.JSONMap{
			"assigned_to": uid.String(),
			"is_primary":  a.IsPrimary,
		})
		out = append(out, a)
		created++
	}
	return out, created
}

func (f *fakeStore) UnassignUser(_ context.Context, taskID, userID, actorID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[taskID]; !ok {
		return false, repository.ErrTaskNotFound
	}
	for i, a := range f.assignments[taskID] {
		if a.UserID == userID {
			f.assignments[taskID] = append(f.assignments[taskID][:i], f.assignments[taskID][i+1:]...)
			f.appendHistory(taskID, actorID, models.ActionUnassigned, models.JSONMap{"unassigned_user": userID.String()})
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListAssignments(_ context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskAssignment, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	all := f.assignments[taskID]
	sorted := make([]*models.TaskAssignment, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AssignedAt.After(sorted[j].AssignedAt)
	})
	total := len(sorted)
	if offset > 0 {
		if offset >= len(sorted) {
			sorted = nil
		} else {
			sorted = sorted[offset:]
		}
	}
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, total, nil
}

func (f *fakeStore) CreateComment(_ context.Context, taskID, authorID uuid.UUID, content string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[taskID]; !ok {
		return nil, repository.ErrTaskNotFound
	}
	ts := f.tick()
	c := &models.Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	f.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdateComment(_ context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	c.Content = content
	c.IsEdited = true
	c.UpdatedAt = f.tick()
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListComments(_ context.Context, taskID uuid.UUID, limit, offset int) ([]*models.Comment, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*models.Comment
	for _, c := range f.comments {
		if c.TaskID == taskID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	total := len(out)
	if offset > 0 {
		if offset >= len(out) {
			out = nil
		} else {
			out = out[offset:]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeStore) ListHistory(_ context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskHistory, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*models.TaskHistory
	for _, h := range f.history {
		if h.TaskID == taskID {
			cp := *h
			out = append(out, &cp)
		}
	}
	// Newest first, ID as tie breaker like the SQL ordering.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	total := len(out)
	if offset > 0 {
		if offset >= len(out) {
			out = nil
		} else {
			out = out[offset:]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetTemplate(_ context.Context, id uuid.UUID) (*models.TaskTemplate, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrTemplateNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) TemplateTagIDs(_ context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]uuid.UUID(nil), f.templateTags[templateID]...), nil
}

func (f *fakeStore) MarkOverdueTasks(_ context.Context, now time.Time) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var flagged []*models.Task
	for _, t := range f.tasks {
		if t.IsArchived || t.IsOverdue || !t.DueAt.Before(now) || models.IsTerminalStatus(t.Status) {
			continue
		}
		t.IsOverdue = true
		t.UpdatedAt = f.tick()
		f.appendHistory(t.ID, t.CreatedBy, models.ActionUpdated, models.JSONMap{
			"is_overdue": true,
			"reason":     "automatically_marked_overdue",
		})
		cp := *t
		flagged = append(flagged, &cp)
	}
	return flagged, nil
}

func (f *fakeStore) RefreshSearchVector(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return f.refreshErr
	}
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	f.indexedAt[id] = f.tick()
	return nil
}

func (f *fakeStore) StaleSearchIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []uuid.UUID
	for id, t := range f.tasks {
		at, ok := f.indexedAt[id]
		if !ok || at.Before(t.UpdatedAt) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStore) RebuildSearchIndex(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := f.tick()
	for id := range f.tasks {
		f.indexedAt[id] = ts
	}
	return int64(len(f.tasks)), nil
}

func (f *fakeStore) CreateTag(_ context.Context, name, color string) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.tags {
		if tag.Name == name {
			return nil, repository.ErrTagAlreadyExists
		}
	}
	if color == "" {
		color = models.DefaultTagColor
	}
	tag := &models.Tag{ID: uuid.New(), Name: name, Color: color, CreatedAt: f.tick()}
	f.tags[tag.ID] = tag
	cp := *tag
	return &cp, nil
}

func (f *fakeStore) ListTags(_ context.Context) ([]*models.Tag, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*models.Tag
	for _, tag := range f.tags {
		cp := *tag
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (f *fakeStore) TaskTags(_ context.Context, taskID uuid.UUID) ([]*models.Tag, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*models.Tag
	for _, id := range f.taskTags[taskID] {
		if tag, ok := f.tags[id]; ok {
			cp := *tag
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (f *fakeStore) CreateTeam(_ context.Context, name, description string, createdBy uuid.UUID, memberIDs []uuid.UUID) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, team := range f.teams {
		if team.Name == name {
			return nil, repository.ErrTeamAlreadyExists
		}
	}
	for _, id := range memberIDs {
		if _, ok := f.users[id]; !ok {
			return nil, repository.ErrUserNotFound
		}
	}
	team := &models.Team{ID: uuid.New(), Name: name, Description: description, CreatedBy: createdBy, CreatedAt: f.tick()}
	f.teams[team.ID] = team
	f.teamMembers[team.ID] = append([]uuid.UUID(nil), memberIDs...)
	cp := *team
	return &cp, nil
}

func (f *fakeStore) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	team, ok := f.teams[id]
	if !ok {
		return nil, repository.ErrTeamNotFound
	}
	cp := *team
	return &cp, nil
}

func (f *fakeStore) TeamMemberIDs(_ context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]uuid.UUID(nil), f.teamMembers[teamID]...), nil
}

func (f *fakeStore) CreateUser(_ context.Context, username, email string, isStaff bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		IsStaff:   isStaff,
		IsActive:  true,
		CreatedAt: f.tick(),
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}
