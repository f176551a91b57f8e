// Package daemon coordinates the long-running cutlistd process.
//
// It wires configuration, the session store and the review service behind
// the HTTP API, with flock-based locking to prevent multiple instances over
// the same data directory. Startup also prunes old log files.
//
// Keep orchestration logic here: segment and title rules live in their own
// packages while the daemon focuses on startup, shutdown and request
// plumbing.
package daemon
