// Package constants centralizes defaults shared across the CLI and the API.
//
// Timeouts, redirect limits, the outbound User-Agent and body limits live here
// so cmd/ and internal/ can reference them without import cycles.
package constants
