// Package artnet ingests DMX levels from the Art-Net protocol.
//
// Only the ArtDmx (OpDmx, 0x5000) datagram is understood:
//
//	Byte 0-7:   "Art-Net\x00"
//	Byte 8-9:   OpCode, little-endian (0x5000)
//	Byte 10-11: protocol version (ignored)
//	Byte 12:    sequence (ignored)
//	Byte 13:    physical port (ignored)
//	Byte 14-15: universe (SubUni + Net), little-endian
//	Byte 16-17: data length, big-endian
//	Byte 18+:   channel levels
//
// Consoles refresh at roughly 40 Hz whether or not anything changed, so the
// Decoder keeps a 512-channel shadow buffer and reports only levels that
// differ from the previous accepted frame.
package artnet
