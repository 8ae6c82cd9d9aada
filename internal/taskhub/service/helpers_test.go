package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/domain"
	"github.com/ParamD12/taskhub-app/internal/taskhub/loop"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote/memory"
	"github.com/ParamD12/taskhub-app/internal/taskhub/service"
	"github.com/ParamD12/taskhub-app/internal/taskhub/store/drivers/sqlite"
	"github.com/ParamD12/taskhub-app/pkg/cryptox"
	"github.com/ParamD12/taskhub-app/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "secret1"
)

// gates hold remote operations in flight until released.
type gates struct {
	mu    sync.Mutex
	held  map[memory.Op]chan struct{}
	entry map[memory.Op]chan struct{}
}

func (g *gates) hook(op memory.Op) {
	g.mu.Lock()
	release, ok := g.held[op]
	entered := g.entry[op]
	g.mu.Unlock()
	if !ok {
		return
	}
	entered <- struct{}{}
	<-release
}

// hold blocks the next calls of op. The returned entered channel receives
// once per blocked call; release lets every blocked call continue.
func (g *gates) hold(op memory.Op) (entered <-chan struct{}, release func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := make(chan struct{})
	in := make(chan struct{}, 8)
	g.held[op] = ch
	g.entry[op] = in

	var once sync.Once
	return in, func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, op)
			g.mu.Unlock()
			close(ch)
		})
	}
}

type env struct {
	backend  *memory.Backend
	store    *sqlite.Store
	sealer   *cryptox.Sealer
	loop     *loop.Loop
	notifier *service.Notifier
	tasks    *service.TaskService
	sessions *service.SessionService
	gates    *gates
	opts     service.Options

	// stop ends the running loop and event consumer.
	stop func()
}

func testOptions() service.Options {
	return service.Options{
		RemoteTimeout:  2 * time.Second,
		LoadingTimeout: 2 * time.Second,
		RetryInitial:   time.Millisecond,
		RetryMax:       5 * time.Millisecond,
		MaxRetries:     2,
	}
}

func newEnv(t *testing.T, mopts memory.Options) *env {
	t.Helper()

	backend, err := memory.New(mopts)
	require.NoError(t, err)

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	sealer, err := cryptox.NewSealer([]byte("test master key"))
	require.NoError(t, err)

	e := &env{
		backend: backend,
		store:   st,
		sealer:  sealer,
		gates:   &gates{held: map[memory.Op]chan struct{}{}, entry: map[memory.Op]chan struct{}{}},
		opts:    testOptions(),
	}
	backend.Hook = e.gates.hook

	e.start(t)
	return e
}

// start wires a fresh loop and services over the env's backend and store,
// as a process restart would.
func (e *env) start(t *testing.T) {
	t.Helper()
	if e.stop != nil {
		e.stop()
	}

	e.loop = loop.New(slogx.Discard(), 0)
	e.loop.Start()
	t.Cleanup(e.loop.Stop)

	e.notifier = service.NewNotifier(0)
	e.tasks = service.NewTaskService(e.loop, e.store, e.notifier, slogx.Discard(), e.opts)
	e.sessions = service.NewSessionService(e.loop, e.backend, e.store, e.sealer, e.tasks, e.notifier, slogx.Discard(), e.opts)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go e.sessions.Run(ctx)

	l := e.loop
	e.stop = func() {
		cancel()
		l.Stop()
	}
}

func (e *env) signUp(t *testing.T, email string) string {
	t.Helper()
	id, err := e.sessions.SignUp(context.Background(), service.SignUpInput{
		Name:     "Alice",
		Email:    email,
		Password: testPassword,
		DOB:      "1990-04-01",
	})
	require.NoError(t, err)
	return id.ID
}

// signIn signs in and waits for the first fetch to fill the cache.
func (e *env) signIn(t *testing.T, email string) service.SessionView {
	t.Helper()
	view, err := e.sessions.SignIn(context.Background(), email, testPassword)
	require.NoError(t, err)
	e.waitLoaded(t)
	return view
}

func (e *env) waitLoaded(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		l, err := e.tasks.List(context.Background(), domain.FilterAll)
		return err == nil && !l.Loading
	}, 2*time.Second, 5*time.Millisecond)
}

func (e *env) list(t *testing.T) []domain.Task {
	t.Helper()
	l, err := e.tasks.List(context.Background(), domain.FilterAll)
	require.NoError(t, err)
	return l.Tasks
}

// serverTasks is the authoritative list of userID's tasks.
func (e *env) serverTasks(t *testing.T, userID string) []domain.Task {
	t.Helper()
	sess, err := e.backend.SignIn(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	defer func() { _ = sess.SignOut(context.Background()) }()

	rows, err := sess.Tasks().List(context.Background(), userID)
	require.NoError(t, err)
	return rows
}

func messages(ns []domain.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}
