package protocol

// Kind identifies a message variant on the wire. The zero value is invalid;
// use the named constants.
type Kind int

const (
	KindInvalid Kind = iota

	// Requests
	KindLogin
	KindCreate
	KindPush
	KindPop
	KindTop
	KindSet
	KindGet
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindBegin
	KindCommit
	KindBye

	// Responses
	KindOK
	KindFailed
	KindError
	KindData
)

// shape describes how a Kind's arguments are validated.
type shape int

const (
	shapeNone        shape = iota // no arguments
	shapeIdentifier               // exactly one identifier argument
	shapeTwoIdent                 // exactly two identifier arguments
	shapeValue                    // exactly one value argument (no space/newline)
	shapeText                     // one free-text argument, may contain spaces
)

type kindInfo struct {
	name  string
	shape shape
}

var kindTable = map[Kind]kindInfo{
	KindLogin:  {"LOGIN", shapeIdentifier},
	KindCreate: {"CREATE", shapeIdentifier},
	KindPush:   {"PUSH", shapeValue},
	KindPop:    {"POP", shapeNone},
	KindTop:    {"TOP", shapeNone},
	KindSet:    {"SET", shapeTwoIdent},
	KindGet:    {"GET", shapeTwoIdent},
	KindAdd:    {"ADD", shapeNone},
	KindSub:    {"SUB", shapeNone},
	KindMul:    {"MUL", shapeNone},
	KindDiv:    {"DIV", shapeNone},
	KindBegin:  {"BEGIN", shapeNone},
	KindCommit: {"COMMIT", shapeNone},
	KindBye:    {"BYE", shapeNone},
	KindOK:     {"OK", shapeNone},
	KindFailed: {"FAILED", shapeText},
	KindError:  {"ERROR", shapeText},
	KindData:   {"DATA", shapeValue},
}

var nameTable = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTable))
	for k, info := range kindTable {
		m[info.name] = k
	}
	return m
}()

// String returns the wire token for k, or "" if k is not a known kind.
func (k Kind) String() string {
	return kindTable[k].name
}

func (k Kind) shape() shape {
	return kindTable[k].shape
}

// kindFromString looks up the Kind for a wire token. ok is false for unknown
// tokens, which callers must turn into ErrProtocol.
func kindFromString(s string) (Kind, bool) {
	k, ok := nameTable[s]
	return k, ok
}
