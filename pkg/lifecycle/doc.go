// Package lifecycle provides unload hooks for SDK instances.
//
// A browser fires "beforeunload" when a tab is closed or reloaded; components
// such as the session manager use it to clear per-tab markers. Hooks is the
// process equivalent: components register callbacks with OnUnload and the
// owner calls Unload once when the instance goes away, either directly or via
// NotifyOnSignal on SIGINT / SIGTERM.
//
// # Usage
//
//	hooks := lifecycle.New()
//	stop := lifecycle.NotifyOnSignal(ctx, hooks)
//	defer stop()
//
//	remove := hooks.OnUnload(func() { fmt.Println("bye") })
//	defer remove()
//
//	<-hooks.Done()
package lifecycle
