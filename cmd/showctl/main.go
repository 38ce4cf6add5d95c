// showctl sends control commands to a showcue node over OSC.
//
//	showctl -host 10.0.0.5 play 3
//	showctl take
//	showctl text "Doors open in 5 minutes"
//	showctl dmx 12 255
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 9000
)

var errUsage = errors.New("usage")

func main() {
	host := flag.String("host", defaultHost, "showcue node address")
	port := flag.Int("port", defaultPort, "showcue OSC port")
	flag.Usage = usage
	flag.Parse()

	msg, err := buildMessage(flag.Args())
	if err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	client := osc.NewClient(*host, *port)
	if err := client.Send(msg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: sending %s to %s:%d: %v\n", msg.Address, *host, *port, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: showctl [-host HOST] [-port PORT] COMMAND [ARGS]

Commands:
  play ROW          take ROW to program
  preview ROW       load ROW on the preview monitor
  preload ROW       preload ROW on its target screens
  take              promote the preview cue to program
  stopall           stop every screen
  timecode HH:MM:SS[:FF]
  dmx CHANNEL VALUE
  text [TEXT...]    set the overlay text (no text clears it)
`)
}

// buildMessage turns command-line arguments into the OSC message the
// node's decoder dispatches.
func buildMessage(args []string) (*osc.Message, error) {
	if len(args) == 0 {
		return nil, errUsage
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "play", "preview", "preload":
		row, err := intArgs(cmd, rest, 1)
		if err != nil {
			return nil, err
		}
		return osc.NewMessage("/cue/"+cmd, row[0]), nil

	case "take":
		return osc.NewMessage("/cue/take"), nil

	case "stopall", "stop_all":
		return osc.NewMessage("/cue/stop_all"), nil

	case "timecode", "tc":
		if len(rest) != 1 {
			return nil, fmt.Errorf("%s takes one timecode argument", cmd)
		}
		return osc.NewMessage("/timecode", rest[0]), nil

	case "dmx":
		vals, err := intArgs(cmd, rest, 2)
		if err != nil {
			return nil, err
		}
		return osc.NewMessage("/dmx", vals[0], vals[1]), nil

	case "text":
		msg := osc.NewMessage("/text")
		if text := strings.Join(rest, " "); text != "" {
			msg.Append(text)
		}
		return msg, nil
	}

	return nil, fmt.Errorf("unknown command %q", args[0])
}

func intArgs(cmd string, args []string, n int) ([]any, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s takes %d integer argument(s)", cmd, n)
	}
	out := make([]any, n)
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", cmd, a)
		}
		out[i] = int32(v)
	}
	return out, nil
}
