package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Таблица типов
	TblInfo          Code = 1000
	TblUnknownType   Code = 1001
	TblDuplicateType Code = 1002
	TblBadRule       Code = 1003
	TblBadAlias      Code = 1004
	TblShadowedRule  Code = 1005
	TblBadFunction   Code = 1006

	// Разрешение перегрузок
	ResInfo              Code = 2000
	ResNoOverload        Code = 2001
	ResAmbiguousOverload Code = 2002
	ResUnknownFunction   Code = 2003
	ResArityMismatch     Code = 2004
	ResUnsafeRejected    Code = 2005

	// Ввод-вывод
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	TblInfo:          "Type table information",
	TblUnknownType:   "Unknown type name",
	TblDuplicateType: "Duplicate type name",
	TblBadRule:       "Malformed compatibility rule",
	TblBadAlias:      "Malformed type alias",
	TblShadowedRule:  "Rule overrides an earlier rule for the same pair",
	TblBadFunction:   "Malformed function declaration",

	ResInfo:              "Resolution information",
	ResNoOverload:        "No matching overload found",
	ResAmbiguousOverload: "Ambiguous overload resolution",
	ResUnknownFunction:   "Unknown function",
	ResArityMismatch:     "Wrong number of arguments",
	ResUnsafeRejected:    "Only unsafe conversions match",

	IOLoadFileError: "Failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TBL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
