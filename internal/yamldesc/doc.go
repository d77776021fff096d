// Package yamldesc provides a YAML implementation of config.Loader.
//
// A YAML description holds the same information as the HCL one, as a single
// document with `system`, `apps` and `connections` keys. Module payloads are
// arbitrary YAML mappings and are converted into cty values through their
// JSON form so both loaders hand the compiler identical payload types.
package yamldesc
