package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-client/internal/domain/model"
	"weather-client/internal/state"
	"weather-client/pkg/log"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamPingInterval = 30 * time.Second
)

// StateView is the state tree as a UI renders it. The session is exposed without tokens.
type StateView struct {
	Theme   state.ThemeState   `json:"theme"`
	Search  state.SearchState  `json:"search"`
	Weather state.WeatherState `json:"weather"`
	Auth    model.SessionView  `json:"auth"`
}

func newStateView(s state.State) StateView {
	return StateView{Theme: s.Theme, Search: s.Search, Weather: s.Weather, Auth: sessionView(s.Auth)}
}

// Purger drops the durable copy of the state.
type Purger interface {
	Purge(ctx context.Context) error
}

type StateStreamController struct {
	api      *echo.Group
	store    *state.Store
	purger   Purger
	upgrader websocket.Upgrader
}

func NewStateStreamController(api *echo.Group, store *state.Store, purger Purger) *StateStreamController {
	return &StateStreamController{
		api:    api,
		store:  store,
		purger: purger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the control surface only serves the local UI
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// InitStateRoutes initializes state routes
func (controller *StateStreamController) InitStateRoutes() {
	controller.api.GET("/state", controller.GetState)
	controller.api.GET("/state/stream", controller.Stream)
	controller.api.DELETE("/state/persisted", controller.PurgePersisted)
}

func (controller *StateStreamController) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, newStateView(controller.store.GetState()))
}

// PurgePersisted godoc
// @Summary Remove the persisted theme and search history
// @Description The in-memory state is kept and is persisted again on its next change.
// @Tags state
// @Success 204
// @Failure 500 {object} map[string]string
// @Router /state/persisted [delete]
func (controller *StateStreamController) PurgePersisted(c echo.Context) error {
	if err := controller.purger.Purge(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Stream godoc
// @Summary Follow the state tree over a websocket
// @Description Sends the current state on connect and again after transitions. Bursts of
// @Description transitions are coalesced into one message carrying the latest state.
// @Tags state
// @Success 101
// @Router /state/stream [get]
func (controller *StateStreamController) Stream(c echo.Context) error {
	conn, err := controller.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn("State stream upgrade failed", zap.Error(err))
		return nil
	}
	defer func() { _ = conn.Close() }()

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	log.Debug("State stream opened", zap.String("request_id", requestID))
	defer log.Debug("State stream closed", zap.String("request_id", requestID))

	changed := make(chan struct{}, 1)
	unsubscribe := controller.store.Subscribe(func(state.Action, state.State, state.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := controller.send(conn); err != nil {
		return nil
	}

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return nil
		case <-changed:
			if err := controller.send(conn); err != nil {
				return nil
			}
		case <-ticker.C:
			deadline := time.Now().Add(streamWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		}
	}
}

func (controller *StateStreamController) send(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	err := conn.WriteJSON(newStateView(controller.store.GetState()))
	if err != nil {
		log.Debug("State stream write failed", zap.Error(err))
	}
	return err
}
