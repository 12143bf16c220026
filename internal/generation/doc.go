// Package generation turns a trip request into a generated itinerary. It
// builds the prompt, tries an ordered list of text models until one
// answers, and extracts the fenced JSON plan from the model's reply.
// Provider SDKs stay behind the ModelClient interface.
package generation
