// Package normalisers contains implementations of the driven.Normaliser
// port. Each subpackage handles one source format, converting raw bytes
// into a title and plain-text content ready for chunking:
//
//   - markdown: Markdown via goldmark AST traversal
//   - plaintext: UTF-8 text passthrough
//
// Normalisers are selected by source file extension; unregistered
// extensions are rejected at import.
package normalisers
