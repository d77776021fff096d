// Package hcl provides the HCL implementation of config.Loader.
//
// A description is any number of .hcl files holding `system`, `app` and
// top-level `connection` blocks. Files are parsed with hclparse, decoded
// with gohcl into the block structs in schema.go, and translated into the
// format-agnostic config.Description. Module `conf` and `resume` attributes
// are kept as cty values and passed through untouched.
package hcl
