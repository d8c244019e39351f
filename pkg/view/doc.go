// Package view defines server-rendered pages and their deferred loaders.
//
// A route does not hold its page directly. It holds a Loader, an explicit
// asynchronous factory that produces the Page the first time the route is
// activated. Lazy wraps a Loader with the activation rules:
//
//   - Concurrent activations of the same route share a single in-flight load.
//   - The first successful result is cached; later activations return it
//     without calling the loader again.
//   - Errors are never cached, so the next activation retries.
//   - A caller whose context ends stops waiting and gets ctx.Err(). The load
//     itself keeps running on a detached context bounded by the load timeout,
//     so one abandoned navigation never fails another.
//
// Start returns a Future, a promise-like handle that can be waited on or
// selected over:
//
//	f := lazy.Start(ctx)
//	select {
//	case <-f.Done():
//	    page, err := f.Result()
//	case <-ctx.Done():
//	}
package view
