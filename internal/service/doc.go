// Package service implements the application use cases: trip generation,
// the trip catalogue, the admin dashboard, user profiles and the country list.
// Services depend on store interfaces and narrow adapter interfaces so they
// can be tested without external systems.
package service
