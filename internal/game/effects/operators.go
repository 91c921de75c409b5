package effects

// And resolves every member in order.
type And struct {
	Members []Effect
}

// UpTo resolves Primitive up to NumTimes times, stopping early once the
// primitive has nothing left to act on.
type UpTo struct {
	Primitive Primitive
	NumTimes  int
}

// Optional asks the acting player whether to resolve Operation.
type Optional struct {
	Operation Effect
}

func (*And) effectNode()      {}
func (*UpTo) effectNode()     {}
func (*Optional) effectNode() {}

// Seq builds an And, dropping nil members. It returns nil when nothing is
// left and the member itself when only one is left.
func Seq(members ...Effect) Effect {
	var kept []Effect
	for _, m := range members {
		if !IsNone(m) {
			kept = append(kept, m)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &And{Members: kept}
	}
}

// MaybeOptional wraps op in Optional, or returns nil when op is nil.
func MaybeOptional(op Effect) Effect {
	if IsNone(op) {
		return nil
	}
	return &Optional{Operation: op}
}

// IsNone reports whether e is the empty effect. Typed nil pointers count
// as empty too.
func IsNone(e Effect) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *Draw:
		return v == nil
	case *Meld:
		return v == nil
	case *Tuck:
		return v == nil
	case *Return:
		return v == nil
	case *TransferCard:
		return v == nil
	case *ExchangeCards:
		return v == nil
	case *Splay:
		return v == nil
	case *Achieve:
		return v == nil
	case *Score:
		return v == nil
	case *And:
		return v == nil
	case *UpTo:
		return v == nil
	case *Optional:
		return v == nil
	default:
		return false
	}
}

// IsPrompt reports whether resolving e needs a player decision.
func IsPrompt(e Effect) bool {
	switch e.(type) {
	case *Meld, *Tuck, *Return, *Score, *TransferCard, *ExchangeCards, *Splay, *Optional:
		return true
	default:
		return false
	}
}
