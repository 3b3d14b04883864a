// Package fuzztests houses Go fuzz harnesses for the tokenizer. They feed
// arbitrary bytes through both lexer modes and check token invariants.
//
// Назначение: прогонять произвольный ввод через FileSet и лексер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/diag, internal/testkit.
package fuzztests
