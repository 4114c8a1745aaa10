package location

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"weathernow/internal/models"
	"weathernow/internal/repositories"
	"weathernow/pkg/logger"
)

// AuthorizationState tracks the permission/fix flow.
type AuthorizationState string

const (
	StateNotDetermined AuthorizationState = "not-determined"
	StateAwaitingFix   AuthorizationState = "awaiting-fix"
	StateResolved      AuthorizationState = "resolved"
	StateDenied        AuthorizationState = "denied"
)

// Place-name placeholders for the failure branches. Exact strings are part of
// the contract with the presentation layer.
const (
	PlaceUnknownCity     = "Unknown City"
	PlaceUnknownLocation = "Unknown Location"
	PlaceLocationDenied  = "Location Denied"
)

// FixProvider is the device/platform adapter: it answers the permission
// request and produces one-shot coordinate fixes.
type FixProvider interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentFix(ctx context.Context) (models.Coordinates, error)
}

// Update is delivered to subscribers on every observable change.
type Update struct {
	State       AuthorizationState
	Coordinates *models.Coordinates
	PlaceName   string
}

// Resolver obtains device coordinates and a best-effort place name. Each fix
// carries an identity; a reverse-lookup completion for a superseded fix is
// dropped instead of racing the newer one.
type Resolver struct {
	fixes FixProvider
	geo   repositories.GeocodingRepository
	l     *logger.Logger

	mu        sync.Mutex
	requested bool
	state     AuthorizationState
	coords    *models.Coordinates
	fixID     uuid.UUID
	placeName string
	subs      map[chan Update]struct{}
}

func NewResolver(fixes FixProvider, geo repositories.GeocodingRepository, l *logger.Logger) *Resolver {
	return &Resolver{
		fixes: fixes,
		geo:   geo,
		l:     l,
		state: StateNotDetermined,
		subs:  make(map[chan Update]struct{}),
	}
}

func (r *Resolver) State() AuthorizationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Coordinates returns the latest fix, or nil when none has been obtained.
func (r *Resolver) Coordinates() *models.Coordinates {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coords == nil {
		return nil
	}
	c := *r.coords
	return &c
}

func (r *Resolver) PlaceName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.placeName
}

// Subscribe registers a channel receiving every observable change. Slow
// consumers miss updates rather than blocking the resolver.
func (r *Resolver) Subscribe() chan Update {
	ch := make(chan Update, 8)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

func (r *Resolver) Unsubscribe(ch chan Update) {
	r.mu.Lock()
	if _, ok := r.subs[ch]; ok {
		delete(r.subs, ch)
		close(ch)
	}
	r.mu.Unlock()
}

// RequestAccess triggers the permission flow once; repeated calls are no-ops.
// Effects are observed through the accessors and subscriptions.
func (r *Resolver) RequestAccess(ctx context.Context) {
	r.mu.Lock()
	if r.requested {
		r.mu.Unlock()
		return
	}
	r.requested = true
	r.mu.Unlock()

	go r.acquire(ctx)
}

// Refresh requests a new one-shot fix. It does nothing unless permission has
// already been granted.
func (r *Resolver) Refresh(ctx context.Context) {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	if state != StateAwaitingFix && state != StateResolved {
		return
	}

	go r.obtainFix(ctx)
}

func (r *Resolver) acquire(ctx context.Context) {
	granted, err := r.fixes.RequestPermission(ctx)
	if err != nil || !granted {
		if err != nil {
			r.l.Warning("permission request failed", map[string]any{"err": err})
		}
		r.mu.Lock()
		r.state = StateDenied
		r.placeName = PlaceLocationDenied
		r.mu.Unlock()

		r.publish(Update{State: StateDenied, PlaceName: PlaceLocationDenied})
		return
	}

	r.mu.Lock()
	r.state = StateAwaitingFix
	r.mu.Unlock()

	r.obtainFix(ctx)
}

func (r *Resolver) obtainFix(ctx context.Context) {
	fix, err := r.fixes.CurrentFix(ctx)
	if err != nil {
		r.l.Warning("coordinate fix failed", map[string]any{"err": err})

		// No retries: coordinates stay unset, place name becomes a placeholder.
		r.mu.Lock()
		r.placeName = PlaceUnknownLocation
		state := r.state
		r.mu.Unlock()

		r.publish(Update{State: state, PlaceName: PlaceUnknownLocation})
		return
	}

	id := uuid.New()

	r.mu.Lock()
	r.coords = &fix
	r.fixID = id
	r.state = StateResolved
	r.mu.Unlock()

	r.l.Info("coordinate fix resolved", map[string]any{
		"fixID":  id.String(),
		"params": fix.RequestParams(),
	})
	r.publish(Update{State: StateResolved, Coordinates: &models.Coordinates{Latitude: fix.Latitude, Longitude: fix.Longitude}})

	r.resolvePlaceName(ctx, id, fix)
}

// resolvePlaceName runs the reverse lookup for one fix. If a newer fix
// arrived meanwhile, the completion is stale and dropped.
func (r *Resolver) resolvePlaceName(ctx context.Context, id uuid.UUID, fix models.Coordinates) {
	name, err := r.geo.ReverseLookup(ctx, fix)
	if err != nil {
		r.l.Warning("reverse lookup failed", map[string]any{"err": err, "fixID": id.String()})
		name = ""
	}
	if name == "" {
		name = PlaceUnknownCity
	}

	r.mu.Lock()
	if id != r.fixID {
		r.mu.Unlock()
		r.l.Debug("dropping stale reverse lookup", map[string]any{"fixID": id.String()})
		return
	}
	r.placeName = name
	state := r.state
	r.mu.Unlock()

	r.publish(Update{State: state, PlaceName: name})
}

func (r *Resolver) publish(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
