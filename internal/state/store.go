package state

import (
	"sync"

	"go.uber.org/zap"

	"weather-client/internal/domain/entity"
	"weather-client/pkg/log"
)

// Action is anything a reducer can react to.
type Action interface {
	Type() string
}

// Dispatcher applies actions to the state tree.
type Dispatcher interface {
	Dispatch(action Action)
}

// Listener observes committed transitions. It runs while the store is locked, so it must
// not dispatch; hand work off to another goroutine instead.
type Listener func(action Action, prev, next State)

// State is the whole client state tree. Reducers never mutate slices in place, so a copy
// returned by GetState stays valid after later dispatches.
type State struct {
	Theme   ThemeState   `json:"theme"`
	Search  SearchState  `json:"search"`
	Weather WeatherState `json:"weather"`
	Auth    AuthState    `json:"auth"`
}

// InitialState builds the empty tree. The theme starts in system mode.
func InitialState(systemDark bool) State {
	return State{
		Theme:   ThemeState{Mode: entity.ThemeSystem, IsDark: systemDark},
		Search:  SearchState{SearchHistory: []entity.SearchHistoryItem{}, SearchResults: []entity.SearchResult{}},
		Weather: initialWeatherState(),
	}
}

// Store serializes every transition: each reducer application is atomic and listeners see
// transitions in dispatch order.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	closed    bool
}

func NewStore(initial State) *Store {
	return &Store{state: initial, listeners: make(map[int]Listener)}
}

// Dispatch reduces the action into the tree and notifies listeners. It is a no-op once the
// store is closed.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		log.Debug("Dropping action on closed store", zap.String("action", action.Type()))
		return
	}

	prev := s.state
	s.state = reduce(prev, action)

	for _, listener := range s.listeners {
		listener(action, prev, s.state)
	}
}

// GetState returns the current tree.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns its cancel function.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close tears the store down. Operations still in flight settle into nothing.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = make(map[int]Listener)
}

func reduce(s State, action Action) State {
	s.Theme = reduceTheme(s.Theme, action)
	s.Search = reduceSearch(s.Search, action)
	s.Weather = reduceWeather(s.Weather, action)
	s.Auth = reduceAuth(s.Auth, action)
	return s
}
