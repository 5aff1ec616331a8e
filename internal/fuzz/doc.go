// Package fuzztests houses Go fuzz harnesses for the symbol table and the
// Java front end. Their goal is to guard against panics, broken tree
// invariants and hangs on arbitrary inputs.
//
// Назначение: прогонять байты через javafront.Analyze и случайные
// последовательности операций через symbols.Table, проверяя Validate.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/javafront, internal/symbols,
// internal/diag, internal/testkit.

package fuzztests
