// Package domain contains the core business entities, value objects, and
// domain logic of the application: trip requests, generated plans,
// persisted trips, user profiles and dashboard statistics. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
