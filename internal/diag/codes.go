package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexDecimalUnsupported       Code = 1004
	LexIntegerOverflow          Code = 1005
	LexMixedIndentation         Code = 1006
	LexInconsistentIndentation  Code = 1007
	LexBadLineMarker            Code = 1008

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynExpectType       Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectBlock      Code = 2005
	SynExpectStatement  Code = 2006
	SynUnparsedTokens   Code = 2007
	SynExpectSeparator  Code = 2008

	// Семантические
	SemaInfo              Code = 3000
	SemaRedefinition      Code = 3001
	SemaTypeRedefinition  Code = 3002
	SemaTypeScopeMismatch Code = 3003
	SemaUnknownIdent      Code = 3004
	SemaUnknownType       Code = 3005
	SemaUnknownMember     Code = 3006
	SemaTypeMismatch      Code = 3007
	SemaNoCommonType      Code = 3008
	SemaNotFullyDefined   Code = 3009
	SemaNotInFunction     Code = 3010
	SemaNotImplemented    Code = 3011
	SemaNotCallable       Code = 3012
	SemaArgumentMismatch  Code = 3013
	SemaSkipped           Code = 3014

	// IO и препроцессор
	IOLoadFileError       Code = 4001
	PreInfo               Code = 4100
	PreIncludeNotFound    Code = 4101
	PreUnknownDirective   Code = 4102
	PreUserWarning        Code = 4103
	PreUserError          Code = 4104
	PreUnterminatedIf     Code = 4105
	PreIncludeCycle       Code = 4106
	PreMalformedDirective Code = 4107

	// Observability
	ObsInfo     Code = 6000
	ObsTimings  Code = 6001
	ObsCacheHit Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unexpected character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexDecimalUnsupported:       "Decimals are not yet supported",
	LexIntegerOverflow:          "Integer literal out of range",
	LexMixedIndentation:         "Mixed tabs and spaces in indentation",
	LexInconsistentIndentation:  "Inconsistent indentation",
	LexBadLineMarker:            "Malformed preprocessor line marker",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectExpression:         "Expected expression",
	SynExpectType:               "Expected type",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectBlock:              "Expected block",
	SynExpectStatement:          "Expected statement",
	SynUnparsedTokens:           "Unparsed tokens remaining",
	SynExpectSeparator:          "Expected statement separator",
	SemaInfo:                    "Semantic information",
	SemaRedefinition:            "Redefinition of identifier",
	SemaTypeRedefinition:        "Redefinition of type",
	SemaTypeScopeMismatch:       "Type declared in another scope",
	SemaUnknownIdent:            "Unknown name",
	SemaUnknownType:             "Unknown type name",
	SemaUnknownMember:           "Unknown member",
	SemaTypeMismatch:            "Type mismatch",
	SemaNoCommonType:            "No common type",
	SemaNotFullyDefined:         "Type has not been fully defined",
	SemaNotInFunction:           "Not in a function",
	SemaNotImplemented:          "Not implemented",
	SemaNotCallable:             "Not callable",
	SemaArgumentMismatch:        "Argument mismatch",
	SemaSkipped:                 "Semantic analysis skipped",
	IOLoadFileError:             "I/O load file error",
	PreInfo:                     "Preprocessor information",
	PreIncludeNotFound:          "Include not found",
	PreUnknownDirective:         "Unknown directive",
	PreUserWarning:              "#warn directive",
	PreUserError:                "#error directive",
	PreUnterminatedIf:           "Unterminated conditional",
	PreIncludeCycle:             "Include cycle",
	PreMalformedDirective:       "Malformed directive",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
	ObsCacheHit:                 "Cache hit",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 4100:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4100 && ic < 5000:
		return fmt.Sprintf("PRE%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
