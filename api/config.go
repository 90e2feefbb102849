// Package api provides the HTTP server for driving conversation turns and
// inspecting the journal, superjournal, and taxonomy.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string
}
