
// Package fuzztests houses Go fuzz harnesses for the table loaders and the
// overload selector. Its goal is to smoke test robustness and guard against
// panics on arbitrary inputs, and to check selection results against a
// brute-force ranking.
//
// Назначение: прогонять произвольные байты через ParseTOML/ParseYAML и Build,
// а также через SelectOverload на случайно собранной таблице.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/universe, internal/typeconv, internal/testkit.

package fuzztests
