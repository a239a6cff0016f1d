// Package api provides the HTTP REST API server for recordvault.
//
// It exposes the registration and login endpoints, token-protected user
// record operations, and system endpoints (health, stats) to clients.
//
// The server follows the same lifecycle pattern as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
