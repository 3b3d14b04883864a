package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// лексер
	LexInfo         Code = 1000
	LexInvalidChar  Code = 1001 // символ вне алфавита языка
	LexInvalidInput Code = 1002 // вход не является текстом (не UTF-8)

	// ввод-вывод
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var codeTitles = map[Code]string{
	UnknownCode:     "Unknown error",
	LexInfo:         "Lexical information",
	LexInvalidChar:  "Invalid character",
	LexInvalidInput: "Input is not textual data",
	IOLoadFileError: "I/O load file error",
	IOCacheError:    "Token cache error",
}

// ID is the stable short form shown to users: LEX1001, IO4001.
func (c Code) ID() string {
	switch c / 1000 {
	case 1:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case 4:
		return fmt.Sprintf("IO%04d", uint16(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return "[" + c.ID() + "]: " + c.Title()
}
