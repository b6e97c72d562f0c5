// Package fsm defines the interpreter modes and the legal moves between them.
package fsm

import "fmt"

type Mode string

type Event string

const (
	ModeIdle     Mode = "IDLE"
	ModeProduct  Mode = "PRODUCT"
	ModeQuantity Mode = "QUANTITY"
	ModePrice    Mode = "PRICE"
	ModeRow      Mode = "ROW"
)

const (
	EventCancel     Event = "cancel"
	EventProduct    Event = "product"
	EventConfirm    Event = "confirm"
	EventRow        Event = "row"
	EventRowDone    Event = "row-done"
	EventQuantity   Event = "quantity"
	EventPrice      Event = "price"
	EventNext       Event = "next"
	EventStructural Event = "structural"
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeIdle, ModeProduct, ModeQuantity, ModePrice, ModeRow}
}

func Transition(current Mode, event Event) (Mode, error) {
	if event == EventCancel {
		return ModeIdle, nil
	}

	switch current {
	case ModeIdle, ModeQuantity, ModePrice:
		switch event {
		case EventProduct:
			return ModeProduct, nil
		case EventRow:
			return ModeRow, nil
		case EventQuantity:
			return ModeQuantity, nil
		case EventPrice:
			return ModePrice, nil
		case EventStructural:
			return ModeIdle, nil
		case EventNext:
			if current == ModeQuantity {
				return ModePrice, nil
			}
			return ModeIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case ModeProduct:
		switch event {
		case EventConfirm:
			return ModeIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case ModeRow:
		switch event {
		case EventRowDone, EventStructural:
			return ModeIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown mode %q", current)
	}
}

func invalidTransition(mode Mode, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", mode, event)
}
