package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// textAliases maps plain-text verbs to canonical addresses.
var textAliases = map[string]string{
	"play":     "/cue/play",
	"preview":  "/cue/preview",
	"preload":  "/cue/preload",
	"take":     "/cue/take",
	"stopall":  "/cue/stop_all",
	"timecode": "/timecode",
	"dmx":      "/dmx",
	"text":     "/text",
}

// Decode parses one control datagram.
//
// A datagram starting with '/' is tried as binary OSC-lite first. Anything
// else, or a binary packet that fails to parse, is read as a plain-text
// command line such as "play 3" or "/cue/take", whose command word is
// matched case-insensitively.
//
// Parameters:
//   - datagram: Raw UDP payload or relayed command text
//
// Returns:
//   - Message: Address and typed arguments
//   - error: nil on success, or an error wrapping ErrMalformedPacket
func Decode(datagram []byte) (Message, error) {
	var binErr error
	if len(datagram) > 0 && datagram[0] == '/' {
		msg, err := decodeBinary(datagram)
		if err == nil {
			return msg, nil
		}
		binErr = err
	}

	msg, err := decodeText(datagram)
	if err == nil {
		return msg, nil
	}
	if binErr != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformedPacket, binErr)
	}
	return Message{}, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
}

// pad returns the number of NUL bytes needed to align n to 4 bytes.
func pad(n int) int {
	return (4 - n%4) % 4
}

// readPadded reads a NUL-terminated string starting at offset and returns
// it with the next 4-byte aligned offset.
func readPadded(data []byte, offset int) (string, int, error) {
	if offset < 0 || offset >= len(data) {
		return "", 0, fmt.Errorf("truncated at offset %d", offset)
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return "", 0, fmt.Errorf("unterminated string at offset %d", offset)
	}
	end += offset
	next := end + 1 + pad(end+1)
	if next > len(data) {
		return "", 0, fmt.Errorf("misaligned string at offset %d (%d bytes)", offset, len(data))
	}
	return string(data[offset:end]), next, nil
}

func decodeBinary(data []byte) (Message, error) {
	address, offset, err := readPadded(data, 0)
	if err != nil {
		return Message{}, fmt.Errorf("address: %w", err)
	}

	tags, offset, err := readPadded(data, offset)
	if err != nil {
		return Message{}, fmt.Errorf("type tags: %w", err)
	}
	if !strings.HasPrefix(tags, ",") {
		return Message{}, fmt.Errorf("type tags must start with ',' (got %q)", tags)
	}

	msg := Message{Address: address}
	for i := 1; i < len(tags); i++ {
		switch tag := tags[i]; tag {
		case TypeInt:
			if offset+4 > len(data) {
				return Message{}, fmt.Errorf("truncated int32 at offset %d", offset)
			}
			msg.Args = append(msg.Args, IntArg(int32(binary.BigEndian.Uint32(data[offset:]))))
			offset += 4
		case TypeFloat:
			if offset+4 > len(data) {
				return Message{}, fmt.Errorf("truncated float32 at offset %d", offset)
			}
			msg.Args = append(msg.Args, FloatArg(math.Float32frombits(binary.BigEndian.Uint32(data[offset:]))))
			offset += 4
		case TypeString:
			var s string
			s, offset, err = readPadded(data, offset)
			if err != nil {
				return Message{}, fmt.Errorf("string argument: %w", err)
			}
			msg.Args = append(msg.Args, StringArg(s))
		default:
			return Message{}, fmt.Errorf("%w %q", ErrUnsupportedTag, tag)
		}
	}
	return msg, nil
}

func decodeText(data []byte) (Message, error) {
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return Message{}, fmt.Errorf("not a text command")
	}
	line := strings.TrimSpace(string(data))
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Message{}, fmt.Errorf("empty text command")
	}

	command := strings.ToLower(tokens[0])
	if !strings.HasPrefix(command, "/") {
		address, ok := textAliases[command]
		if !ok {
			return Message{}, fmt.Errorf("%w %q", ErrUnknownCommand, tokens[0])
		}
		command = address
	}

	msg := Message{Address: command}
	if command == "/text" {
		// The remaining words are one argument, even when empty.
		msg.Args = []Arg{StringArg(strings.Join(tokens[1:], " "))}
		return msg, nil
	}

	for _, tok := range tokens[1:] {
		if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
			msg.Args = append(msg.Args, IntArg(int32(v)))
			continue
		}
		msg.Args = append(msg.Args, StringArg(tok))
	}
	return msg, nil
}

// Encode builds a binary OSC-lite packet. It is the inverse of the binary
// branch of Decode and is used by tests and peers that emit packets.
func Encode(msg Message) []byte {
	var buf []byte
	buf = appendPadded(buf, msg.Address)

	tags := make([]byte, 0, len(msg.Args)+1)
	tags = append(tags, ',')
	for _, a := range msg.Args {
		tags = append(tags, a.Type)
	}
	buf = appendPadded(buf, string(tags))

	for _, a := range msg.Args {
		switch a.Type {
		case TypeInt:
			buf = binary.BigEndian.AppendUint32(buf, uint32(a.Int))
		case TypeFloat:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(a.Float))
		default:
			buf = appendPadded(buf, a.Str)
		}
	}
	return buf
}

func appendPadded(buf []byte, s string) []byte {
	buf = append(buf, s...)
	buf = append(buf, 0)
	for range pad(len(s) + 1) {
		buf = append(buf, 0)
	}
	return buf
}
