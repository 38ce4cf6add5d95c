package osc

import (
	"fmt"
	"strconv"
	"strings"
)

// Argument type tags.
const (
	TypeInt    byte = 'i'
	TypeFloat  byte = 'f'
	TypeString byte = 's'
)

// Arg is one typed OSC argument.
type Arg struct {
	Type  byte
	Int   int32
	Float float32
	Str   string
}

// IntArg returns an int argument.
func IntArg(v int32) Arg { return Arg{Type: TypeInt, Int: v} }

// FloatArg returns a float argument.
func FloatArg(v float32) Arg { return Arg{Type: TypeFloat, Float: v} }

// StringArg returns a string argument.
func StringArg(v string) Arg { return Arg{Type: TypeString, Str: v} }

func (a Arg) String() string {
	switch a.Type {
	case TypeInt:
		return strconv.Itoa(int(a.Int))
	case TypeFloat:
		return strconv.FormatFloat(float64(a.Float), 'g', -1, 32)
	default:
		return strconv.Quote(a.Str)
	}
}

// Message is a decoded command: an address and its arguments.
type Message struct {
	Address string
	Args    []Arg
}

func (m Message) String() string {
	if len(m.Args) == 0 {
		return m.Address
	}
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", m.Address, strings.Join(parts, " "))
}
