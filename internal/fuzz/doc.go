// Package fuzztests houses Go fuzz harnesses for the front half of hidl
// (source -> lexer -> parser) and for name handling. Their goal is to guard
// against panics, hangs and broken module invariants on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер/парсер,
// проверять FQ-имена на обратимость.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/ast, internal/fqname.
package fuzztests
