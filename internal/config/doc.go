// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings of the HTTP server, the database, the
// token validator, and the external providers used by trip generation
// (Gemini, Unsplash, Stripe, restcountries).
package config
