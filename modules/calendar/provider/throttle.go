package provider

import (
	"context"

	"bookinglink/core/constants"

	"golang.org/x/time/rate"
)

// throttle paces outbound calendar API calls so a burst of availability
// requests cannot trip the vendor's quota.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle() *throttle {
	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(constants.ProviderRequestsPerSecond), constants.ProviderBurstSize),
	}
}

// wait blocks until a request may go out, or the context is done.
func (t *throttle) wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
