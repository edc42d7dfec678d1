// Package token defines lexical token kinds and trivia for .hal sources.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Annotations are lexed as '@' (Kind: At) + Ident; the parser skips them.
//   - Versions are not a token: "@1.0" is At IntLit Dot IntLit.
//   - Scalar type names (uint32_t, string, vec, ...) are identifiers.
package token
