package protocol

import "fmt"

// Message is the tagged (kind, args) record described in spec.md §3. Args is
// ordered and its length/shape is fixed per Kind — see Validate.
type Message struct {
	Kind Kind
	Args []string
}

func New(kind Kind, args ...string) Message {
	return Message{Kind: kind, Args: args}
}

// Validate checks arity against the Kind's shape, and, for identifier/value
// shapes, the argument content. Text-shaped messages (FAILED, ERROR) are
// valid with any non-nil Args of length 1, including an empty string — the
// message text itself is unconstrained free text.
func (m Message) Validate() error {
	info, ok := kindTable[m.Kind]
	if !ok {
		return NewProtocolError("unknown message kind")
	}

	switch info.shape {
	case shapeNone:
		if len(m.Args) != 0 {
			return NewProtocolError(fmt.Sprintf("%s takes no arguments", info.name))
		}
	case shapeIdentifier:
		if len(m.Args) != 1 {
			return NewProtocolError(fmt.Sprintf("%s requires exactly one argument", info.name))
		}
		if !IsIdentifier(m.Args[0]) {
			return NewProtocolError(fmt.Sprintf("%s argument is not a valid identifier", info.name))
		}
	case shapeTwoIdent:
		if len(m.Args) != 2 {
			return NewProtocolError(fmt.Sprintf("%s requires exactly two arguments", info.name))
		}
		if !IsIdentifier(m.Args[0]) || !IsIdentifier(m.Args[1]) {
			return NewProtocolError(fmt.Sprintf("%s arguments must be valid identifiers", info.name))
		}
	case shapeValue:
		if len(m.Args) != 1 {
			return NewProtocolError(fmt.Sprintf("%s requires exactly one argument", info.name))
		}
		if !IsValue(m.Args[0]) {
			return NewProtocolError(fmt.Sprintf("%s argument is not a valid value", info.name))
		}
	case shapeText:
		if len(m.Args) != 1 {
			return NewProtocolError(fmt.Sprintf("%s requires exactly one argument", info.name))
		}
	}

	return nil
}

// Convenience constructors, mirroring the free functions client_helper.cpp
// used to build each request/response type.

func Login(username string) Message  { return New(KindLogin, username) }
func Create(table string) Message    { return New(KindCreate, table) }
func Push(value string) Message      { return New(KindPush, value) }
func Pop() Message                   { return New(KindPop) }
func Top() Message                   { return New(KindTop) }
func Set(table, key string) Message  { return New(KindSet, table, key) }
func Get(table, key string) Message  { return New(KindGet, table, key) }
func Add() Message                   { return New(KindAdd) }
func Sub() Message                   { return New(KindSub) }
func Mul() Message                   { return New(KindMul) }
func Div() Message                   { return New(KindDiv) }
func Begin() Message                 { return New(KindBegin) }
func Commit() Message                { return New(KindCommit) }
func Bye() Message                   { return New(KindBye) }
func OK() Message                    { return New(KindOK) }
func Data(value string) Message      { return New(KindData, value) }
func Failed(reason string) Message   { return New(KindFailed, reason) }
func ErrorMsg(reason string) Message { return New(KindError, reason) }
