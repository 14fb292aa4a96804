// Package shutdown runs cleanup hooks when the CLI exits.
//
// Hooks run once, in reverse registration order, either on SIGINT/SIGTERM
// (Wait) or when the interactive shell ends normally (Shutdown).
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown("session store", store.Close)
//	go h.Wait(ctx)
//	defer h.Shutdown()
package shutdown
