package guard

import "sync"

// State of the route guard.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// SessionReader is the part of the session the guard depends on.
type SessionReader interface {
	IsAuthenticated() bool
}

// Guard gates protected routes behind the presence of a session token.
type Guard struct {
	session SessionReader
}

func New(session SessionReader) *Guard {
	return &Guard{session: session}
}

func (g *Guard) State() State {
	if g.session.IsAuthenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// Resolve returns where a navigation to target actually lands. Protected
// targets resolve to the login route while unauthenticated; the original
// target is not preserved.
func (g *Guard) Resolve(target string) string {
	if target == "" || target == RouteRoot {
		target = RouteDashboard
	}
	if IsPublic(target) || g.State() == Authenticated {
		return target
	}
	return RouteLogin
}

// Navigator tracks the current location and routes every move through a Guard.
type Navigator struct {
	guard *Guard

	mu       sync.Mutex
	current  string
	onChange func(from, to string)
}

type NavigatorOption func(*Navigator)

// WithOnChange registers a listener called after every location change.
func WithOnChange(fn func(from, to string)) NavigatorOption {
	return func(n *Navigator) { n.onChange = fn }
}

// WithStart sets the initial location without going through the guard.
func WithStart(location string) NavigatorOption {
	return func(n *Navigator) { n.current = location }
}

func NewNavigator(g *Guard, opts ...NavigatorOption) *Navigator {
	n := &Navigator{guard: g, current: RouteRoot}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

func (n *Navigator) Guard() *Guard {
	return n.guard
}

// Current returns the current location.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate moves to target through the guard and returns the location reached.
func (n *Navigator) Navigate(target string) string {
	return n.moveTo(n.guard.Resolve(target))
}

// RedirectToLogin forces navigation to the login route unless already there.
func (n *Navigator) RedirectToLogin() {
	n.moveTo(RouteLogin)
}

func (n *Navigator) moveTo(location string) string {
	n.mu.Lock()
	from := n.current
	if from == location {
		n.mu.Unlock()
		return location
	}
	n.current = location
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(from, location)
	}
	return location
}
