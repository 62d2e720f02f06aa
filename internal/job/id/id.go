// Package id provides unique identifier generation for jobs.
package id

import "github.com/google/uuid"

// Prefix is prepended to every generated job ID.
const Prefix = "render-"

// Generate creates a new unique job ID.
// Example: render-3f1c9a62-8b0e-4d4e-9a57-6c1f0f2b7d11
func Generate() string {
	return Prefix + uuid.NewString()
}
