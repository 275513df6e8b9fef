package types

import "time"

// ServerConfig represents the server configuration.
type ServerConfig struct {
	// Strict is passed as the strict flag to the live sheet's ParseString
	// on set_text. The in-memory livestyle.MemSheet parses the same way
	// whichever value it receives.
	Strict bool `json:"strict"`

	// DocumentURL is the fallback sourceURL used for a rule's view when its
	// owning sheet has no href (e.g. an inline <style> element).
	DocumentURL string `json:"documentURL"`

	// ResourceFetchTimeoutMillis bounds how long the resource loader waits
	// for an externally-linked stylesheet's text before giving up.
	ResourceFetchTimeoutMillis int `json:"resourceFetchTimeoutMillis"`
}

// ResourceFetchTimeout returns ResourceFetchTimeoutMillis as a Duration.
func (c ServerConfig) ResourceFetchTimeout() time.Duration {
	return time.Duration(c.ResourceFetchTimeoutMillis) * time.Millisecond
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Strict:                     true,
		ResourceFetchTimeoutMillis: 10000,
	}
}
