// Package ratelimit paces requests made to the C2DB server.
//
// Two mechanisms are provided:
//
// Pacer:
//   - A fixed pause taken between consecutive requests
//   - FixedDelay sleeps for a constant duration and honours context cancellation
//   - NoDelay and CountingPacer are useful when no pause is wanted
//
// Request limiter:
//   - An optional ceiling on requests per minute built on golang.org/x/time/rate
//   - Applied by the catalog client before each request
//
// Usage:
//
//	pacer := ratelimit.NewFixedDelay(time.Second)
//	if err := pacer.Pause(ctx); err != nil {
//	    return err
//	}
//
//	limiter := ratelimit.NewRequestLimiter(30) // nil when disabled
package ratelimit
