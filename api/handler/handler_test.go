package handler_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/gotodos/backend/api/handler"
	"github.com/gotodos/backend/domain"
	"github.com/gotodos/backend/internal/infrastructure/monitor"
	"github.com/gotodos/backend/internal/middleware"
	"github.com/gotodos/backend/internal/ratelimit"
	appRouter "github.com/gotodos/backend/internal/router"
	"github.com/gotodos/backend/internal/token"
	"github.com/gotodos/backend/pkg/httpcontext"
	"github.com/gotodos/backend/repository"
	authUC "github.com/gotodos/backend/usecase/auth"
	todoUC "github.com/gotodos/backend/usecase/todo"
)

// In-memory repositories backing the full handler stack. They enforce the
// same uniqueness rules as the Postgres schema.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func (r *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

type memTodoRepo struct {
	mu    sync.Mutex
	todos []*domain.Todo
}

func (r *memTodoRepo) GetByID(_ context.Context, id string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, td := range r.todos {
		if td.ID == id {
			copied := *td
			return &copied, nil
		}
	}
	return nil, domain.ErrTodoNotFound
}

func (r *memTodoRepo) List(_ context.Context, page repository.Page) ([]domain.Todo, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.todos)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}

	out := make([]domain.Todo, 0, end-start)
	for _, td := range r.todos[start:end] {
		out = append(out, *td)
	}
	return out, total, nil
}

func (r *memTodoRepo) TitleExists(_ context.Context, title, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, td := range r.todos {
		if td.Title == title && td.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, td := range r.todos {
		if td.Title == todo.Title {
			return domain.ErrTitleTaken
		}
	}
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	copied := *todo
	r.todos = append(r.todos, &copied)
	return nil
}

func (r *memTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, td := range r.todos {
		if td.ID == todo.ID {
			todo.UpdatedAt = time.Now()
			copied := *todo
			r.todos[i] = &copied
			return nil
		}
	}
	return domain.ErrTodoNotFound
}

func (r *memTodoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, td := range r.todos {
		if td.ID == id {
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return nil
		}
	}
	return domain.ErrTodoNotFound
}

// testApp is the whole API wired against in-memory stores.
type testApp struct {
	router *router.Router
}

type appOptions struct {
	userPerMinute int
	ipPerMinute   int
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	if opts.userPerMinute == 0 {
		opts.userPerMinute = 250
	}
	if opts.ipPerMinute == 0 {
		opts.ipPerMinute = 100
	}

	tokens := token.NewManager("test-secret", "test", time.Hour)
	authUseCase := authUC.New(
		&memUserRepo{users: make(map[string]*domain.User)},
		&memSessionRepo{sessions: make(map[string]*domain.Session)},
		tokens,
		nil,
	)
	todoUseCase := todoUC.New(&memTodoRepo{}, nil)

	adapter := httpcontext.NewAdapter(5 * time.Second)

	handlers := appRouter.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, adapter, nil),
		Todo:   apiHandler.NewTodoHandler(todoUseCase, adapter, nil),
		Health: apiHandler.NewHealthHandler(monitor.New(nil, nil, nil, time.Second, nil), adapter, nil),
	}

	r := appRouter.New(handlers, appRouter.Middleware{
		Auth: middleware.Auth(authUseCase, nil),
		RateLimit: middleware.RateLimit(middleware.RateLimitOptions{
			Users: ratelimit.NewMemoryStore(opts.userPerMinute),
			IPs:   ratelimit.NewMemoryStore(opts.ipPerMinute),
			KeyFn: middleware.TokenKeyFunc(tokens),
		}),
	})

	return &testApp{router: r}
}

// do runs one request through the router and returns status plus decoded body.
func (a *testApp) do(t *testing.T, method, path, bearer string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if bearer != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(payload)
	}

	a.router.Handler(ctx)

	decoded := map[string]interface{}{}
	if raw := ctx.Response.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal response %q: %v", raw, err)
		}
	}
	return ctx.Response.StatusCode(), decoded
}

// registerAndLogin creates the default test user and returns a valid token.
func (a *testApp) registerAndLogin(t *testing.T) string {
	t.Helper()

	status, _ := a.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name":             "Sally",
		"email":            "sally@me.com",
		"password":         "secret",
		"confirm_password": "secret",
	})
	if status != fasthttp.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	status, body := a.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "sally@me.com",
		"password": "secret",
	})
	if status != fasthttp.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	return dataField(t, body, "access_token")
}

func dataField(t *testing.T, body map[string]interface{}, field string) string {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	value, ok := data[field].(string)
	if !ok {
		t.Fatalf("data.%s missing in %v", field, data)
	}
	return value
}
