// Package api exposes the trip, profile, dashboard and country endpoints
// over HTTP. Handlers decode and validate requests, delegate to the
// service layer, and map service errors to status codes and safe
// client-facing messages.
package api
