// Package payments creates Stripe payment links for generated trips using
// stripe-go. Each link sells a one-off product whose default price is the
// trip's estimated price.
package payments
