// Package gemini adapts Google's Gemini API (google.golang.org/genai) to
// the generation.ModelClient interface. Each call targets one named model;
// fallback across models is handled by the generation package.
package gemini
