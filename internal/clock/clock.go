package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

type Clock interface {
	Now(ctx context.Context) time.Time
}

var Module = fx.Module("clock",
	fx.Provide(New),
)

func New() Clock { return SystemClock{} }

// Fixed returns a clock pinned to t. Test helper.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now(context.Context) time.Time { return c.t }
