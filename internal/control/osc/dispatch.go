package osc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/showcue-core/internal/trigger"
)

// Dispatch maps a decoded message to a trigger event.
//
// ok is false when the address is recognised but the arguments do not form
// an event (for example a negative row or /timecode without a value). An
// unrecognised address returns ErrUnhandledAddress.
func Dispatch(msg Message) (trigger.Event, bool, error) {
	addr := msg.Address

	switch {
	case strings.HasPrefix(addr, "/cue/play"):
		return rowEvent(msg, trigger.Play)
	case strings.HasPrefix(addr, "/cue/preview"):
		return rowEvent(msg, trigger.Preview)
	case strings.HasPrefix(addr, "/cue/preload"):
		return rowEvent(msg, trigger.Preload)
	}

	switch addr {
	case "/cue/take", "/take":
		return trigger.TakeEvent(), true, nil

	case "/cue/stop_all", "/stop_all":
		return trigger.StopAllEvent(), true, nil

	case "/timecode", "/tc":
		if text, ok := firstText(msg.Args); ok {
			return trigger.TimecodeEvent(text), true, nil
		}
		return trigger.Event{}, false, nil

	case "/dmx":
		if len(msg.Args) >= 2 && msg.Args[0].Type == TypeInt && msg.Args[1].Type == TypeInt {
			return trigger.DMX(int(msg.Args[0].Int), int(msg.Args[1].Int)), true, nil
		}
		return trigger.Event{}, false, nil

	case "/text", "/overlay/text":
		if len(msg.Args) == 0 {
			return trigger.Overlay(""), true, nil
		}
		if text, ok := firstText(msg.Args); ok {
			return trigger.Overlay(text), true, nil
		}
		return trigger.Event{}, false, nil
	}

	return trigger.Event{}, false, fmt.Errorf("%w: %s", ErrUnhandledAddress, addr)
}

// rowEvent reads the row from a leading int argument, else from the
// trailing numeric path segment.
func rowEvent(msg Message, build func(int) trigger.Event) (trigger.Event, bool, error) {
	var row int
	if len(msg.Args) > 0 && msg.Args[0].Type == TypeInt {
		row = int(msg.Args[0].Int)
	} else {
		row = trailingRow(msg.Address)
	}
	if row < 0 {
		return trigger.Event{}, false, nil
	}
	return build(row), true, nil
}

func trailingRow(address string) int {
	segments := strings.FieldsFunc(address, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return -1
	}
	row, err := strconv.Atoi(segments[len(segments)-1])
	if err != nil {
		return -1
	}
	return row
}

// firstText returns the first argument as text when it is a string or int.
func firstText(args []Arg) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	switch args[0].Type {
	case TypeString:
		return args[0].Str, true
	case TypeInt:
		return strconv.Itoa(int(args[0].Int)), true
	}
	return "", false
}
