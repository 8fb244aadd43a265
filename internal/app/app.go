package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"opinio/internal/api"
	"opinio/internal/effect"
	"opinio/internal/event"
	"opinio/internal/router"
	"opinio/internal/state"
	"opinio/internal/view"
	"opinio/pkg/types"
)

// Defaults for unset Options.
const (
	DefaultAPIHost          = "http://localhost:8080"
	DefaultStatusClearDelay = time.Second
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("app: closed")

// Options configures an App. Zero values use defaults.
type Options struct {
	APIHost          string
	HTTPTimeout      time.Duration
	StatusClearDelay time.Duration
	MaxInFlight      int
	EffectMaxWait    time.Duration
	GithubClientID   string
	OAuthRedirectURL string
	Logger           *zerolog.Logger
	Publisher        event.Publisher
	HTTPClient       *http.Client
}

// App wires the state container, bus, effects and views of the client.
type App struct {
	store   *state.Container
	effects *effect.Registry
	bus     *event.Bus
	views   *view.Registry
	router  *router.Router
	client  *api.Client
	log     zerolog.Logger
	started time.Time
	closed  atomic.Bool
}

// New builds an App with the initial state and every handler, effect and
// view registered.
func New(opts Options) (*App, error) {
	if opts.APIHost == "" {
		opts.APIHost = DefaultAPIHost
	}
	if opts.StatusClearDelay <= 0 {
		opts.StatusClearDelay = DefaultStatusClearDelay
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	client, err := api.New(api.Options{
		BaseURL:    opts.APIHost,
		Timeout:    opts.HTTPTimeout,
		Logger:     &log,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	rt, err := router.New(router.Table, router.DefaultRoute)
	if err != nil {
		return nil, err
	}

	a := &App{
		store:   state.New(InitialState()),
		router:  rt,
		client:  client,
		log:     log.With().Str("component", "app").Logger(),
		started: time.Now(),
	}
	a.effects = effect.New(effect.Config{MaxInFlight: opts.MaxInFlight, MaxWait: opts.EffectMaxWait, Logger: &log})
	registerBackend(a.effects, client)

	a.bus = event.New(a.store, a.effects, event.Config{
		Logger:     &log,
		Publisher:  opts.Publisher,
		ErrorEvent: func(msg string) event.Event { return Error{Message: msg} },
	})
	h := &handlers{router: rt, statusDelay: opts.StatusClearDelay}
	h.register(a.bus)
	if err := a.bus.Check(AllKinds()...); err != nil {
		return nil, err
	}

	a.views = view.New(a.store)
	registerViews(a.views, signInFunc(opts.GithubClientID, opts.OAuthRedirectURL))
	return a, nil
}

// Dispatch handles ev and returns once its synchronous work is committed.
// See event.Bus.Dispatch for the meaning of the returned error.
func (a *App) Dispatch(ctx context.Context, ev event.Event) error {
	if a.closed.Load() {
		return ErrClosed
	}
	return a.bus.Dispatch(ctx, ev)
}

// DispatchRaw decodes a wire event and dispatches it. A payload that does not
// decode is reported as an ERROR event and returned as *PayloadError.
func (a *App) DispatchRaw(ctx context.Context, kind string, payload json.RawMessage) error {
	ev, err := DecodeEvent(event.Kind(kind), payload)
	if err != nil {
		a.log.Warn().Str("kind", kind).Err(err).Msg("undecodable event")
		_ = a.Dispatch(ctx, Error{Message: err.Error()})
		return err
	}
	return a.Dispatch(ctx, ev)
}

// Boot routes to fragment and loads the signed-in user.
func (a *App) Boot(ctx context.Context, fragment string) error {
	if err := a.Dispatch(ctx, Navigate{Fragment: fragment}); err != nil {
		return err
	}
	return a.Dispatch(ctx, GetUser{})
}

// View returns the current value of a named view.
func (a *App) View(name string) (any, error) { return a.views.Get(name) }

// ViewNames lists the registered views.
func (a *App) ViewNames() []string { return a.views.Names() }

// Views exposes the view registry for typed reads.
func (a *App) Views() *view.Registry { return a.views }

// Router exposes the route table.
func (a *App) Router() *router.Router { return a.router }

// MatchRoute resolves a URL fragment against the route table.
func (a *App) MatchRoute(fragment string) types.RouteMatch {
	m := a.router.Match(fragment)
	return types.RouteMatch{ID: m.ID, Params: m.Params, Title: m.Title}
}

// Effects exposes the effect registry so callers can replace backend calls.
func (a *App) Effects() *effect.Registry { return a.effects }

// Version is the current state version.
func (a *App) Version() uint64 { return a.store.Version() }

// Subscribe registers fn to run after each committed batch.
func (a *App) Subscribe(fn state.Observer) (cancel func()) { return a.store.Subscribe(fn) }

// Ready reports whether the App accepts events.
func (a *App) Ready() bool { return !a.closed.Load() }

// Status summarizes the App for the /status endpoint.
func (a *App) Status() types.StatusResponse {
	st := a.bus.Stats()
	return types.StatusResponse{
		Status:         statusOf(a.store),
		Version:        a.store.Version(),
		Inflight:       st.InFlight,
		Dispatched:     st.Dispatched,
		UnknownKinds:   st.UnknownKinds,
		HandlerErrors:  st.HandlerErrors,
		UptimeSeconds:  int64(time.Since(a.started).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
}

// Drain waits for in-flight effects and timers to settle.
func (a *App) Drain(ctx context.Context) error { return a.bus.Drain(ctx) }

// Close stops accepting events and aborts pending effects.
func (a *App) Close() {
	if a.closed.Swap(true) {
		return
	}
	a.bus.Close()
}
