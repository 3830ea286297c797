/*
Package observability turns relay lifecycle events into Prometheus metrics and
structured log lines.

Both are delivered as domain.LifecycleHooks and can be combined with Merge:

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	r := relay.New(client, surface, relay.WithHooks(hooks))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
