package project

import (
	"hidl/internal/source"
)

// ImportMeta is one edge of the import graph.
type ImportMeta struct {
	Name     string // "pkg@1.0::IFoo"
	Span     source.Span
	Implicit bool // неявный импорт пакетного types
}

// ModuleMeta summarizes a resolved module for graph building.
type ModuleMeta struct {
	Name        string // каноническое FQ-имя модуля
	Path        string
	Span        source.Span
	Imports     []ImportMeta
	ContentHash Digest // хеш содержимого файла (из FileSet)
	ModuleHash  Digest // агрегированный хеш модуля с учётом зависимостей
	Broken      bool   // модуль отмечен Absent
}
