// Package pipeline runs the extraction/encode chain that turns a disc into a
// single lossless audio file.
//
// The ripper spawns two external processes (extractor and encoder) and wires
// them together with two stream pumps running on independent goroutines:
// extractor stdout feeds encoder stdin, encoder stdout feeds the destination
// file. The pumps are joined before either process's exit status is
// inspected, because a tool can signal a verify failure only at exit even
// after all bytes have flowed. A failed run removes the destination file; a
// partial output is never presented as valid.
package pipeline
