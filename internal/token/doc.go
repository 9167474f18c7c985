// Package token defines lexical token kinds for the dm front end.
// Invariants:
//   - Synthetic tokens (BlockBegin/BlockEnd from indentation, the NEWLINE
//     after each synthetic BlockEnd) carry no span.
//   - '{' and '}' lex as BlockBegin/BlockEnd; ';' lexes as Newline.
//   - Keywords are lowercase only; everything else matching [A-Za-z0-9_]+
//     that does not start with a digit is an Ident.
package token
