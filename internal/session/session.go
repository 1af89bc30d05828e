// Package session implements the per-connection state machine: it decodes
// requests off a protocol.Codec, dispatches them against a per-session
// operand stack and the shared table registry, and applies the three-tier
// failure policy from spec.md §4.6. Grounded on
// original_source/client_connection.cpp's chat_with_client loop, rebuilt as
// explicit error returns per spec.md §9 instead of exception unwinding.
package session

import (
	"errors"
	"io"
	"strconv"

	"github.com/kvtable/parkv/internal/obslog"
	"github.com/kvtable/parkv/internal/protocol"
	"github.com/kvtable/parkv/internal/stack"
	"github.com/kvtable/parkv/internal/table"
)

// Session is the per-connection state machine: AwaitLogin -> Idle ->
// (InTxn <-> Idle) -> Closed. It is not safe for concurrent use; one
// goroutine per connection owns it for its whole lifetime.
type Session struct {
	codec      *protocol.Codec
	registry   *table.Registry
	log        *obslog.Logger
	remoteAddr string

	stack stack.Stack

	username string
	inTxn    bool

	// heldLocks is the set of tables this session has locked for the
	// in-progress transaction. Empty whenever inTxn is false.
	heldLocks map[*table.Table]struct{}
}

// New constructs a Session bound to a single connection. log may be
// obslog.Discard() when the caller has no use for lifecycle events.
func New(codec *protocol.Codec, registry *table.Registry, log *obslog.Logger, remoteAddr string) *Session {
	return &Session{
		codec:      codec,
		registry:   registry,
		log:        log,
		remoteAddr: remoteAddr,
		heldLocks:  make(map[*table.Table]struct{}),
	}
}

// Run drives the session until BYE, a clean peer close, a fatal protocol
// error, or an I/O failure. It always leaves the session's held locks
// released, per the destructor contract in spec.md §3.
func (s *Session) Run() error {
	defer s.cleanup()

	first := true
	for {
		msg, err := s.codec.Decode()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var perr *protocol.ProtocolError
			if errors.As(err, &perr) {
				s.log.ProtocolError(s.remoteAddr, err)
				_ = s.codec.Encode(protocol.ErrorMsg(perr.Reason))
				return nil
			}
			s.log.ConnIOError(s.remoteAddr, err)
			return err
		}

		if first {
			first = false
			if msg.Kind != protocol.KindLogin {
				s.log.ProtocolError(s.remoteAddr, protocol.ErrProtocol)
				_ = s.codec.Encode(protocol.ErrorMsg("first message must be LOGIN"))
				return nil
			}
		}

		reply, closeAfter := s.exec(msg)
		if err := s.codec.Encode(reply); err != nil {
			s.log.ConnIOError(s.remoteAddr, err)
			return err
		}
		if closeAfter {
			return nil
		}
		if reply.Kind == protocol.KindError {
			return nil
		}
	}
}

// exec runs a single request against session state and returns the response
// to send, plus whether the connection should close after sending it.
func (s *Session) exec(msg protocol.Message) (protocol.Message, bool) {
	switch msg.Kind {
	case protocol.KindLogin:
		s.username = msg.Args[0]
		s.log.LoggedIn(s.remoteAddr, s.username)
		return protocol.OK(), false

	case protocol.KindCreate:
		// Unlike every other data-plane op, a name collision here is fatal
		// (spec.md §8 scenario 5): ERROR, not FAILED, and the connection
		// closes rather than rolling back and continuing.
		name := msg.Args[0]
		if _, err := s.registry.Create(name); err != nil {
			return protocol.ErrorMsg("table already exists"), true
		}
		s.log.TableCreated(name)
		return protocol.OK(), false

	case protocol.KindPush:
		s.stack.Push(msg.Args[0])
		return protocol.OK(), false

	case protocol.KindPop:
		if _, err := s.stack.Pop(); err != nil {
			return s.failure(protocol.NewOperationFailedError("stack is empty")), false
		}
		return protocol.OK(), false

	case protocol.KindTop:
		v, err := s.stack.Top()
		if err != nil {
			return s.failure(protocol.NewOperationFailedError("stack is empty")), false
		}
		return protocol.Data(v), false

	case protocol.KindSet:
		return s.execSet(msg.Args[0], msg.Args[1]), false

	case protocol.KindGet:
		return s.execGet(msg.Args[0], msg.Args[1]), false

	case protocol.KindAdd, protocol.KindSub, protocol.KindMul, protocol.KindDiv:
		return s.execArith(msg.Kind), false

	case protocol.KindBegin:
		if s.inTxn {
			return protocol.Failed("transaction already active"), false
		}
		s.inTxn = true
		return protocol.OK(), false

	case protocol.KindCommit:
		if !s.inTxn {
			return s.failure(protocol.NewOperationFailedError("no transaction in progress")), false
		}
		s.commitAll()
		return protocol.OK(), false

	case protocol.KindBye:
		return protocol.OK(), true

	default:
		return protocol.ErrorMsg("unsupported message kind"), true
	}
}

// execSet implements SET: the value written is the stack top, read without
// popping (spec.md §9 preserves this; incr_value's GET/PUSH 1/ADD/SET
// sequence depends on it).
func (s *Session) execSet(tableName, key string) protocol.Message {
	v, err := s.stack.Top()
	if err != nil {
		return s.failure(protocol.NewOperationFailedError("stack is empty"))
	}

	t := s.registry.Find(tableName)
	if t == nil {
		return s.failure(protocol.NewOperationFailedError("table not found"))
	}

	if ferr := s.acquireForUse(t); ferr != nil {
		return s.failure(ferr)
	}

	t.Set(key, v)

	if !s.inTxn {
		t.Commit()
		t.Unlock()
	}

	return protocol.OK()
}

// execGet implements GET: table.get(k) is pushed onto the operand stack.
// Auto-commit GET is a pure read (spec.md §9) — it never calls commit, since
// staged is untouched by a read.
func (s *Session) execGet(tableName, key string) protocol.Message {
	t := s.registry.Find(tableName)
	if t == nil {
		return s.failure(protocol.NewOperationFailedError("table not found"))
	}

	if ferr := s.acquireForUse(t); ferr != nil {
		return s.failure(ferr)
	}

	v, err := t.Get(key)
	if !s.inTxn {
		t.Unlock()
	}
	if err != nil {
		return s.failure(protocol.NewOperationFailedError("key not found"))
	}

	s.stack.Push(v)
	return protocol.OK()
}

// execArith implements ADD/SUB/MUL/DIV. Per spec.md §4.5: right is popped
// first (the most recently pushed operand), left second; DIV checks right
// for zero. Both operands are consumed from the stack before any failure is
// raised, matching the "stack now empty" boundary case in spec.md §8.
func (s *Session) execArith(kind protocol.Kind) protocol.Message {
	right, err := s.stack.Pop()
	if err != nil {
		return s.failure(protocol.NewOperationFailedError("stack is empty"))
	}
	left, err := s.stack.Pop()
	if err != nil {
		return s.failure(protocol.NewOperationFailedError("stack is empty"))
	}

	r, rerr := strconv.ParseInt(right, 10, 64)
	l, lerr := strconv.ParseInt(left, 10, 64)
	if rerr != nil || lerr != nil {
		return s.failure(protocol.NewOperationFailedError("non-integer operand"))
	}

	var result int64
	switch kind {
	case protocol.KindAdd:
		result = l + r
	case protocol.KindSub:
		result = l - r
	case protocol.KindMul:
		result = l * r
	case protocol.KindDiv:
		if r == 0 {
			return s.failure(protocol.NewOperationFailedError("division by zero"))
		}
		result = l / r
	}

	s.stack.Push(strconv.FormatInt(result, 10))
	return protocol.OK()
}

// acquireForUse implements spec.md §4.5's acquire-for-use: outside a
// transaction it blocks for an exclusive lock (auto-commit); inside one it
// reuses an already-held lock or attempts a non-blocking acquisition, never
// blocking a transaction on another session's table.
func (s *Session) acquireForUse(t *table.Table) error {
	if !s.inTxn {
		t.Lock()
		return nil
	}
	if _, ok := s.heldLocks[t]; ok {
		return nil
	}
	if !t.TryLock() {
		return protocol.NewTransactionFailedError("lock unavailable")
	}
	s.heldLocks[t] = struct{}{}
	return nil
}

// commitAll implements the InTxn -> Idle COMMIT transition: commit and
// unlock every held table, then clear transaction state.
func (s *Session) commitAll() {
	for t := range s.heldLocks {
		t.Commit()
		t.Unlock()
		delete(s.heldLocks, t)
	}
	s.inTxn = false
}

// rollbackAll implements spec.md §4.6's rollback-all: discard staged writes
// and release every held table, then clear transaction state.
func (s *Session) rollbackAll() {
	for t := range s.heldLocks {
		t.Rollback()
		t.Unlock()
		delete(s.heldLocks, t)
	}
	s.inTxn = false
}

// failure applies the §4.6 policy to a recoverable error: OperationFailed
// while in a transaction is promoted to a rollback exactly like
// TransactionFailed; outside a transaction it is reported directly, since
// auto-commit mode never leaves a table locked across dispatch calls.
func (s *Session) failure(err error) protocol.Message {
	if s.inTxn {
		s.rollbackAll()
		s.log.TransactionRolledBack(s.remoteAddr, err)
	}
	return protocol.Failed(err.Error())
}

// cleanup runs on every Run() exit path and enforces the session destructor
// contract (spec.md §3): no lock this session held may remain held, and no
// staged map it touched may remain non-empty.
func (s *Session) cleanup() {
	if s.inTxn {
		s.rollbackAll()
	}
	s.log.ConnClosed(s.remoteAddr)
}
