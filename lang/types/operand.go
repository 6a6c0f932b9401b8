package types

import "fmt"

// OperandType is the 8-bit runtime type tag embedded in every instruction,
// used by the machine and JIT to disambiguate how to interpret an operand
// without re-running type inference at execution time. It also carries the
// mixed tags needed for string/character concatenation (spec.md §3).
type OperandType uint8

const (
	OperandNone OperandType = iota
	OperandBoolean
	OperandByte
	OperandCharacter
	OperandFloat
	OperandInteger
	OperandString
	OperandListBoolean
	OperandListByte
	OperandListCharacter
	OperandListFloat
	OperandListInteger
	OperandListString
	OperandListList
	OperandListFunction
	OperandFunction
	OperandStringCharacter
	OperandCharacterString
)

var operandTypeNames = [...]string{
	OperandNone:            "none",
	OperandBoolean:         "bool",
	OperandByte:            "byte",
	OperandCharacter:       "char",
	OperandFloat:           "float",
	OperandInteger:         "int",
	OperandString:          "string",
	OperandListBoolean:     "list<bool>",
	OperandListByte:        "list<byte>",
	OperandListCharacter:   "list<char>",
	OperandListFloat:       "list<float>",
	OperandListInteger:     "list<int>",
	OperandListString:      "list<string>",
	OperandListList:        "list<list>",
	OperandListFunction:    "list<fn>",
	OperandFunction:        "fn",
	OperandStringCharacter: "string+char",
	OperandCharacterString: "char+string",
}

func (t OperandType) String() string {
	if int(t) < len(operandTypeNames) && operandTypeNames[t] != "" {
		return operandTypeNames[t]
	}
	return fmt.Sprintf("operand(%d)", uint8(t))
}

// ListElemOperandType returns the OperandType tag for elements of a
// list/array of the given primitive element type, or OperandListList for
// any elem without a dedicated list tag (nested lists included, whatever
// their inner element).
func ListElemOperandType(elem OperandType) OperandType {
	switch elem {
	case OperandBoolean:
		return OperandListBoolean
	case OperandByte:
		return OperandListByte
	case OperandCharacter:
		return OperandListCharacter
	case OperandFloat:
		return OperandListFloat
	case OperandInteger:
		return OperandListInteger
	case OperandString:
		return OperandListString
	case OperandFunction:
		return OperandListFunction
	default:
		return OperandListList
	}
}
