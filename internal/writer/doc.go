// Package writer serializes a compiled plan to disk.
//
// Every file is rendered into a temporary directory next to the target and
// the directory is renamed into place only after all files were written, so
// a failed run never leaves a partial configuration behind.
package writer
