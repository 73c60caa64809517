package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Move is one of the recognized game symbols. Anything else is discarded
// at the submission boundary and never reaches the ledger.
type Move string

const (
	MoveRock     Move = "r"
	MovePaper    Move = "p"
	MoveScissors Move = "s"
)

func (m Move) Valid() bool {
	switch m {
	case MoveRock, MovePaper, MoveScissors:
		return true
	}
	return false
}

// Name returns the lowercase display name of the symbol ("" if invalid).
func (m Move) Name() string {
	switch m {
	case MoveRock:
		return "rock"
	case MovePaper:
		return "paper"
	case MoveScissors:
		return "scissors"
	}
	return ""
}

// Turn holds one move slot per seat, index-aligned with Seat.Idx.
// A nil slot means that seat has not moved yet.
type Turn []*Move

func NewTurn(capacity int) Turn {
	return make(Turn, capacity)
}

// Closed reports whether every slot is set. A closed turn is immutable.
func (t Turn) Closed() bool {
	for _, m := range t {
		if m == nil {
			return false
		}
	}
	return true
}

// Turns is the append-only turn ledger of a match, persisted as a JSON
// column (e.g. [["r","s"],["p",null]]) so the whole ledger travels with
// the match row and shares its transaction.
type Turns []Turn

// Open returns the current open turn, or nil when the ledger is empty or
// the last turn already closed.
func (ts Turns) Open() Turn {
	if len(ts) == 0 {
		return nil
	}
	last := ts[len(ts)-1]
	if last.Closed() {
		return nil
	}
	return last
}

func (ts Turns) Value() (driver.Value, error) {
	if ts == nil {
		ts = Turns{}
	}
	b, err := json.Marshal(ts)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (ts *Turns) Scan(value interface{}) error {
	if value == nil {
		*ts = Turns{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported turns column type %T", value)
	}
	if len(raw) == 0 {
		*ts = Turns{}
		return nil
	}
	return json.Unmarshal(raw, ts)
}
