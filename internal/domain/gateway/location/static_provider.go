package location

import (
	"context"
	"errors"
	"time"

	"weather-client/pkg/msg"
)

// StaticProvider answers with a configured position. It honours a permission flag and
// gives up after Timeout, reporting the same typed errors a device would.
type StaticProvider struct {
	Granted     bool
	Coordinates Coordinates
	Timeout     time.Duration
	// Locate resolves the position; nil returns Coordinates immediately
	Locate func(ctx context.Context) (Coordinates, error)
}

var _ Provider = (*StaticProvider)(nil)

func NewStaticProvider(granted bool, latitude, longitude float64, timeout time.Duration) *StaticProvider {
	return &StaticProvider{
		Granted:     granted,
		Coordinates: Coordinates{Latitude: latitude, Longitude: longitude},
		Timeout:     timeout,
	}
}

func (p *StaticProvider) GetCurrentPosition(ctx context.Context) (Coordinates, error) {
	if !p.Granted {
		return Coordinates{}, &Error{Code: PermissionDenied, Message: msg.GetMessage("location.error.permission-denied")}
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	locate := p.Locate
	if locate == nil {
		locate = func(context.Context) (Coordinates, error) { return p.Coordinates, nil }
	}

	type result struct {
		coords Coordinates
		err    error
	}
	done := make(chan result, 1)
	go func() {
		coords, err := locate(ctx)
		done <- result{coords, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinates{}, &Error{Code: Timeout, Message: msg.GetMessage("location.error.timeout")}
		}
		return Coordinates{}, &Error{Code: PositionUnavailable, Message: msg.GetMessage("location.error.unavailable")}
	case r := <-done:
		if r.err != nil {
			var locErr *Error
			if errors.As(r.err, &locErr) {
				return Coordinates{}, locErr
			}
			return Coordinates{}, &Error{Code: PositionUnavailable, Message: r.err.Error()}
		}
		return r.coords, nil
	}
}
