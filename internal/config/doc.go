// Package config defines the format-agnostic deployment description, the
// Loader interface implemented by each description format, and the
// translation of a validated Description into a model.System.
//
// Loaders only parse. Structural checks live here so every format gets the
// same validation and the same error messages.
package config
