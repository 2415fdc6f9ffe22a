package remote

import "encoding/binary"

// PacketLen is the fixed wire size of a remote button packet: 4 id bytes
// plus 1 CRC-8 byte.
const PacketLen = 5

// DecodePacket validates and extracts the 4-byte big-endian id from a
// 5-byte remote packet. ok is false if buf is the wrong length or the CRC
// doesn't match, in which case the packet must be silently discarded: remote
// traffic is a lossy broadcast medium with no error path back to the sender.
func DecodePacket(buf []byte) (id uint32, ok bool) {
	if len(buf) != PacketLen {
		return 0, false
	}
	idBytes := buf[:4]
	if crc8SMBUS(idBytes) != buf[4] {
		return 0, false
	}
	return binary.BigEndian.Uint32(idBytes), true
}
