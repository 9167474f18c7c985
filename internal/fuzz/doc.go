// Package fuzztests houses Go fuzz harnesses that exercise the front end
// (preprocessor -> lexer -> parser -> sema). Its goal is to smoke test
// robustness: arbitrary input may be rejected with a diagnostic, but must
// never panic or hang.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// семантический анализ.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
