// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method. When the field is nil
// the mock falls back to a simple default behaviour (an in-memory map for
// the stores, canned values for the adapters). Every mock counts its calls
// so tests can assert that a collaborator was or was not reached:
//
//	images := &mocks.MockImageSearcher{Err: errors.New("unsplash down")}
//	// ... run the code under test ...
//	assert.Equal(t, 1, images.SearchCallCount())
package mocks
