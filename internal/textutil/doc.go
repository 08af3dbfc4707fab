// Package textutil provides text processing helpers for filenames and
// container titles.
//
// The primary use cases are:
//   - Sanitizing names for safe filesystem use (lock files, scratch files)
//   - Normalizing user-supplied album text into a presentable container title
package textutil
