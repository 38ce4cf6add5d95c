package artnet

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Protocol constants.
const (
	// OpDmx is the ArtDmx opcode.
	OpDmx uint16 = 0x5000

	// HeaderSize is the ArtDmx header length.
	HeaderSize = 18

	// Channels is the number of channels in a DMX universe.
	Channels = 512

	// MaxUniverse is the highest 15-bit port address.
	MaxUniverse = 32767

	protocolVersion = 14
)

var packetID = []byte("Art-Net\x00")

// DMXPacket is a parsed ArtDmx datagram.
type DMXPacket struct {
	Sequence uint8
	Universe int
	Data     []byte
}

// ParseDMX validates an ArtDmx datagram and returns its universe and levels.
func ParseDMX(datagram []byte) (DMXPacket, error) {
	if len(datagram) < HeaderSize {
		return DMXPacket{}, fmt.Errorf("%w: too short (%d bytes, need %d)", ErrInvalidPacket, len(datagram), HeaderSize)
	}
	if !bytes.Equal(datagram[:8], packetID) {
		return DMXPacket{}, fmt.Errorf("%w: bad id", ErrInvalidPacket)
	}
	if op := binary.LittleEndian.Uint16(datagram[8:10]); op != OpDmx {
		return DMXPacket{}, fmt.Errorf("%w: opcode 0x%04x is not OpDmx", ErrInvalidPacket, op)
	}

	universe := binary.LittleEndian.Uint16(datagram[14:16])
	length := int(binary.BigEndian.Uint16(datagram[16:18]))
	if length == 0 {
		return DMXPacket{}, fmt.Errorf("%w: zero data length", ErrInvalidPacket)
	}
	if len(datagram) < HeaderSize+length {
		return DMXPacket{}, fmt.Errorf("%w: declared %d data bytes, got %d", ErrInvalidPacket, length, len(datagram)-HeaderSize)
	}

	return DMXPacket{
		Sequence: datagram[12],
		Universe: int(universe),
		Data:     datagram[HeaderSize : HeaderSize+length],
	}, nil
}

// BuildDMX constructs an ArtDmx datagram. Data longer than 512 channels is
// truncated.
func BuildDMX(seq uint8, universe int, data []byte) []byte {
	if len(data) > Channels {
		data = data[:Channels]
	}
	packet := make([]byte, HeaderSize+len(data))
	copy(packet[0:], packetID)
	binary.LittleEndian.PutUint16(packet[8:10], OpDmx)
	binary.BigEndian.PutUint16(packet[10:12], protocolVersion)
	packet[12] = seq
	binary.LittleEndian.PutUint16(packet[14:16], uint16(universe&0x7FFF))
	binary.BigEndian.PutUint16(packet[16:18], uint16(len(data)))
	copy(packet[HeaderSize:], data)
	return packet
}
