package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/cache"
	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/loop"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store"
	"github.com/google/uuid"
)

func taskKey(t domain.Task) string { return t.ID }

// TaskList is the filtered view of the cache.
type TaskList struct {
	Tasks     []domain.Task
	Filter    domain.TaskFilter
	Loading   bool
	FetchedAt time.Time
}

// TaskService is the local mirror of the signed in user's tasks.
type TaskService struct {
	loop     *loop.Loop
	store    store.Store
	notifier *Notifier
	logger   *slog.Logger
	opts     Options

	// Owned by the loop.
	cache    *cache.Collection[domain.Task]
	sess     remote.Session
	userID   string
	fetching bool
	inflight map[string]struct{} // placeholder IDs whose insert has not settled
}

func NewTaskService(l *loop.Loop, st store.Store, n *Notifier, logger *slog.Logger, opts Options) *TaskService {
	opts = opts.withDefaults()
	return &TaskService{
		loop:     l,
		store:    st,
		notifier: n,
		logger:   logger,
		opts:     opts,
		cache:    cache.New(taskKey, opts.StaleAfter),
		inflight: map[string]struct{}{},
	}
}

// binding is the session a mutation started under.
type binding struct {
	sess       remote.Session
	userID     string
	generation uint64
}

// current returns the active binding. Runs on the loop.
func (s *TaskService) current() (binding, error) {
	if s.sess == nil {
		return binding{}, ErrNotAuthenticated
	}
	return binding{sess: s.sess, userID: s.userID, generation: s.cache.Generation()}, nil
}

// Open binds the service to a signed in session, seeds the cache from the
// persisted snapshot and starts the first fetch in the background.
func (s *TaskService) Open(ctx context.Context, sess remote.Session) error {
	userID := sess.Identity().ID

	gen, err := loop.Call(ctx, s.loop, func() (uint64, error) {
		s.cache.Reset()
		s.sess = sess
		s.userID = userID
		s.fetching = false
		clear(s.inflight)
		return s.cache.Generation(), nil
	})
	if err != nil {
		return err
	}

	if snap, ok := s.loadSnapshot(ctx, userID); ok {
		err := loop.Do(ctx, s.loop, func() error {
			if s.cache.Generation() == gen && !s.cache.Loaded() {
				s.cache.Set(withoutPlaceholders(ownedBy(userID, snap.Tasks)), snap.FetchedAt)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	go func() {
		if _, err := s.Fetch(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrNotAuthenticated) {
			s.logger.Warn("initial task fetch failed", "user_id", userID, "error", err)
		}
	}()
	return nil
}

// Close unbinds the session and empties the cache. Settlements of calls
// still in flight are dropped.
func (s *TaskService) Close(ctx context.Context) error {
	return loop.Do(ctx, s.loop, func() error {
		s.cache.Reset()
		s.sess = nil
		s.userID = ""
		s.fetching = false
		clear(s.inflight)
		return nil
	})
}

func (s *TaskService) loadSnapshot(ctx context.Context, userID string) (domain.TaskSnapshot, bool) {
	if s.store == nil {
		return domain.TaskSnapshot{}, false
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	snap, err := s.store.Snapshots().Load(sctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to load task snapshot", "user_id", userID, "error", err)
		}
		return domain.TaskSnapshot{}, false
	}
	return snap, true
}

// persist writes the cache to the snapshot store. Runs on the loop so
// snapshots are written in settlement order.
func (s *TaskService) persist() {
	if s.store == nil || s.sess == nil || !s.cache.Loaded() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	snap := domain.TaskSnapshot{UserID: s.userID, Tasks: withoutPlaceholders(s.cache.Items()), FetchedAt: s.cache.FetchedAt()}
	if err := s.store.Snapshots().Save(ctx, snap); err != nil {
		s.logger.Warn("failed to persist task snapshot", "user_id", s.userID, "error", err)
	}
}

// ownedBy drops rows that do not belong to userID.
func ownedBy(userID string, tasks []domain.Task) []domain.Task {
	return slices.DeleteFunc(slices.Clone(tasks), func(t domain.Task) bool { return t.UserID != userID })
}

// withoutPlaceholders drops optimistic rows that have no server row yet.
func withoutPlaceholders(tasks []domain.Task) []domain.Task {
	return slices.DeleteFunc(slices.Clone(tasks), func(t domain.Task) bool { return t.IsPlaceholder() })
}

// Fetch loads the full task list of the signed in user, retrying transient
// failures with exponential backoff, and replaces the cache with it.
// Placeholders of inserts still in flight are kept at the head.
func (s *TaskService) Fetch(ctx context.Context) ([]domain.Task, error) {
	b, err := loop.Call(ctx, s.loop, func() (binding, error) {
		b, err := s.current()
		if err == nil {
			s.fetching = true
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}

	var rows []domain.Task
	ferr := s.opts.retry(ctx, func(ctx context.Context) error {
		var err error
		rows, err = b.sess.Tasks().List(ctx, b.userID)
		return err
	})

	return loop.Call(context.WithoutCancel(ctx), s.loop, func() ([]domain.Task, error) {
		if s.cache.Generation() != b.generation {
			s.logger.Info("dropping task fetch for ended session", "user_id", b.userID)
			return nil, ErrNotAuthenticated
		}
		s.fetching = false

		if ferr != nil {
			if !errors.Is(ferr, context.Canceled) {
				s.notifier.Error("Failed to load tasks")
			}
			return nil, fmt.Errorf("fetch tasks: %w", ferr)
		}

		owned := ownedBy(b.userID, rows)
		if dropped := len(rows) - len(owned); dropped > 0 {
			s.logger.Warn("dropped tasks owned by another user", "user_id", b.userID, "count", dropped)
		}

		var pending []domain.Task
		for _, t := range s.cache.Items() {
			if _, ok := s.inflight[t.ID]; ok {
				pending = append(pending, t)
			}
		}
		s.cache.Set(append(pending, owned...), s.opts.Now())
		s.persist()
		return s.cache.Items(), nil
	})
}

// RefreshIfStale refetches when the cache is older than its stale window
// and no fetch is already running. It reports whether a fetch ran.
func (s *TaskService) RefreshIfStale(ctx context.Context) (bool, error) {
	stale, err := loop.Call(ctx, s.loop, func() (bool, error) {
		return s.sess != nil && !s.fetching && s.cache.Stale(s.opts.Now()), nil
	})
	if err != nil || !stale {
		return false, err
	}
	_, err = s.Fetch(ctx)
	return true, err
}

// List returns the cached tasks matching filter, newest first.
func (s *TaskService) List(ctx context.Context, filter domain.TaskFilter) (TaskList, error) {
	return loop.Call(ctx, s.loop, func() (TaskList, error) {
		if s.sess == nil {
			return TaskList{}, ErrNotAuthenticated
		}
		out := TaskList{
			Tasks:     []domain.Task{},
			Filter:    filter,
			Loading:   !s.cache.Loaded(),
			FetchedAt: s.cache.FetchedAt(),
		}
		for _, t := range s.cache.Items() {
			if filter.Match(t) {
				out.Tasks = append(out.Tasks, t)
			}
		}
		return out, nil
	})
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	v := validator{}
	v.check(name != "", "name", "Task name is required")
	return name, v.err()
}

// Add inserts a placeholder at the head of the list and replaces it with
// the stored row once the insert confirms.
func (s *TaskService) Add(ctx context.Context, name string) (domain.Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return domain.Task{}, err
	}

	type begun struct {
		binding
		m           *cache.Mutation[domain.Task]
		placeholder domain.Task
	}
	st, err := loop.Call(ctx, s.loop, func() (begun, error) {
		b, err := s.current()
		if err != nil {
			return begun{}, err
		}
		now := s.opts.Now()
		ph := domain.Task{
			ID:        domain.PlaceholderPrefix + uuid.NewString(),
			UserID:    b.userID,
			Name:      name,
			Status:    domain.StatusIncomplete,
			CreatedAt: now,
			UpdatedAt: now,
		}
		m := s.cache.Begin(func(items []domain.Task) []domain.Task { return cache.Prepend(items, ph) })
		s.inflight[ph.ID] = struct{}{}
		return begun{binding: b, m: m, placeholder: ph}, nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	rctx, cancel := s.opts.remoteContext(ctx)
	created, rerr := st.sess.Tasks().Insert(rctx, domain.NewTask{UserID: st.userID, Name: name, Status: domain.StatusIncomplete})
	cancel()
	if rerr == nil && created.UserID != st.userID {
		rerr = remote.ErrForbidden
	}

	return loop.Call(context.WithoutCancel(ctx), s.loop, func() (domain.Task, error) {
		delete(s.inflight, st.placeholder.ID)
		if rerr != nil {
			if st.m.Rollback(func(items []domain.Task) []domain.Task {
				return cache.Remove(items, taskKey, st.placeholder.ID)
			}) {
				s.notifier.Error("Failed to add task")
			} else {
				s.dropped("add", st.userID)
			}
			return domain.Task{}, fmt.Errorf("add task: %w", rerr)
		}

		ok := st.m.Commit(func(items []domain.Task) []domain.Task {
			items = cache.Remove(items, taskKey, st.placeholder.ID)
			if cache.IndexOf(items, taskKey, created.ID) >= 0 {
				return cache.Replace(items, taskKey, created.ID, created)
			}
			return cache.Prepend(items, created)
		})
		if !ok {
			s.dropped("add", st.userID)
			return created, nil
		}
		s.persist()
		s.notifier.Success("Task added successfully")
		return created, nil
	})
}

// Rename changes the task name. Renaming to the current name is a no-op.
func (s *TaskService) Rename(ctx context.Context, id, name string) (domain.Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return domain.Task{}, err
	}
	return s.update(ctx, id, func(t domain.Task) (domain.TaskPatch, error) {
		if t.Name == name {
			return domain.TaskPatch{}, errNoChange
		}
		return domain.TaskPatch{Name: &name}, nil
	})
}

// SetStatus moves a task to status. Moving a completed task back to
// incomplete needs confirmed, otherwise ErrConfirmationRequired is returned
// and nothing changes.
func (s *TaskService) SetStatus(ctx context.Context, id string, status domain.TaskStatus, confirmed bool) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, ErrInvalidStatus
	}
	return s.update(ctx, id, func(t domain.Task) (domain.TaskPatch, error) {
		return statusPatch(t, status, confirmed)
	})
}

// Toggle flips the task status with the same confirmation rule as
// SetStatus.
func (s *TaskService) Toggle(ctx context.Context, id string, confirmed bool) (domain.Task, error) {
	return s.update(ctx, id, func(t domain.Task) (domain.TaskPatch, error) {
		return statusPatch(t, t.Status.Opposite(), confirmed)
	})
}

func statusPatch(t domain.Task, status domain.TaskStatus, confirmed bool) (domain.TaskPatch, error) {
	if t.Status == status {
		return domain.TaskPatch{}, errNoChange
	}
	if t.Status == domain.StatusComplete && status == domain.StatusIncomplete && !confirmed {
		return domain.TaskPatch{}, ErrConfirmationRequired
	}
	return domain.TaskPatch{Status: &status}, nil
}

// errNoChange short circuits an update whose patch would not change the
// task.
var errNoChange = errors.New("no change")

func updateMessage(p domain.TaskPatch) string {
	if p.Status != nil && p.Name == nil {
		return "Task marked as " + string(*p.Status)
	}
	return "Task updated successfully"
}

// update applies the patch built by plan optimistically, then on the
// remote.
func (s *TaskService) update(ctx context.Context, id string, plan func(domain.Task) (domain.TaskPatch, error)) (domain.Task, error) {
	type begun struct {
		binding
		m     *cache.Mutation[domain.Task]
		patch domain.TaskPatch
		prev  domain.Task
		task  domain.Task
	}
	st, err := loop.Call(ctx, s.loop, func() (begun, error) {
		b, err := s.current()
		if err != nil {
			return begun{}, err
		}
		t, _, ok := s.cache.Get(id)
		if !ok {
			return begun{}, ErrTaskNotFound
		}
		if t.IsPlaceholder() {
			return begun{}, ErrTaskPending
		}

		patch, err := plan(t)
		if err != nil {
			return begun{binding: b, task: t}, err
		}
		next := patch.Apply(t, s.opts.Now())
		m := s.cache.Begin(func(items []domain.Task) []domain.Task {
			return cache.Replace(items, taskKey, id, next)
		})
		return begun{binding: b, m: m, patch: patch, prev: t, task: next}, nil
	})
	if errors.Is(err, errNoChange) {
		return st.task, nil
	}
	if err != nil {
		return domain.Task{}, err
	}

	rctx, cancel := s.opts.remoteContext(ctx)
	updated, rerr := st.sess.Tasks().Update(rctx, st.userID, id, st.patch)
	cancel()

	return loop.Call(context.WithoutCancel(ctx), s.loop, func() (domain.Task, error) {
		if rerr != nil {
			if st.m.Rollback(func(items []domain.Task) []domain.Task {
				return cache.Replace(items, taskKey, id, st.prev)
			}) {
				s.notifier.Error("Failed to update task")
			} else {
				s.dropped("update", st.userID)
			}
			return domain.Task{}, fmt.Errorf("update task: %w", rerr)
		}

		if !st.m.Commit(func(items []domain.Task) []domain.Task {
			return cache.Replace(items, taskKey, id, updated)
		}) {
			s.dropped("update", st.userID)
			return updated, nil
		}
		s.persist()
		s.notifier.Success(updateMessage(st.patch))
		return updated, nil
	})
}

// Delete removes the task optimistically. A failed delete puts it back at
// its previous position.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	type begun struct {
		binding
		m     *cache.Mutation[domain.Task]
		prev  domain.Task
		index int
	}
	st, err := loop.Call(ctx, s.loop, func() (begun, error) {
		b, err := s.current()
		if err != nil {
			return begun{}, err
		}
		t, i, ok := s.cache.Get(id)
		if !ok {
			return begun{}, ErrTaskNotFound
		}
		if t.IsPlaceholder() {
			return begun{}, ErrTaskPending
		}
		m := s.cache.Begin(func(items []domain.Task) []domain.Task {
			return cache.Remove(items, taskKey, id)
		})
		return begun{binding: b, m: m, prev: t, index: i}, nil
	})
	if err != nil {
		return err
	}

	rctx, cancel := s.opts.remoteContext(ctx)
	rerr := st.sess.Tasks().Delete(rctx, st.userID, id)
	cancel()

	return loop.Do(context.WithoutCancel(ctx), s.loop, func() error {
		if rerr != nil {
			if st.m.Rollback(func(items []domain.Task) []domain.Task {
				if cache.IndexOf(items, taskKey, id) >= 0 {
					return items
				}
				return cache.Insert(items, st.index, st.prev)
			}) {
				s.notifier.Error("Failed to delete task")
			} else {
				s.dropped("delete", st.userID)
			}
			return fmt.Errorf("delete task: %w", rerr)
		}

		if !st.m.Commit(nil) {
			s.dropped("delete", st.userID)
			return nil
		}
		s.persist()
		s.notifier.Success("Task deleted successfully")
		return nil
	})
}

func (s *TaskService) dropped(op, userID string) {
	s.logger.Info("dropping settlement for ended session", "op", op, "user_id", userID)
}
