package collector

import (
	"encoding/binary"
	"fmt"
)

// Decoding of the Windows IP helper owner-PID tables. GetExtendedTcpTable
// and GetExtendedUdpTable return an opaque byte buffer holding a DWORD entry
// count followed by a run of fixed-size row structures. All unchecked layout
// knowledge lives in this file: row sizes and field offsets match the
// MIB_*ROW_OWNER_PID structs documented for iphlpapi, fields are read with
// explicit little-endian loads, and every row access is bounds-checked
// against the declared entry count before it happens.

// tableRow is one decoded row, normalized across the four table layouts.
// UDP rows carry no connection state; their state field stays zero and is
// never consulted.
type tableRow struct {
	localPort uint16 // host byte order
	pid       uint32
	state     uint32 // MIB_TCP_STATE_*, TCP only
}

// MIB_TCP_STATE_LISTEN
const tcpStateListen = 2

// Row sizes in bytes, per the MIB_*ROW_OWNER_PID layouts.
const (
	tableHeaderSize = 4  // DWORD dwNumEntries
	tcp4RowSize     = 24 // dwState, dwLocalAddr, dwLocalPort, dwRemoteAddr, dwRemotePort, dwOwningPid
	tcp6RowSize     = 56 // ucLocalAddr[16], dwLocalScopeId, dwLocalPort, ucRemoteAddr[16], dwRemoteScopeId, dwRemotePort, dwState, dwOwningPid
	udp4RowSize     = 12 // dwLocalAddr, dwLocalPort, dwOwningPid
	udp6RowSize     = 28 // ucLocalAddr[16], dwLocalScopeId, dwLocalPort, dwOwningPid
)

// Field offsets within each row.
const (
	tcp4OffState     = 0
	tcp4OffLocalPort = 8
	tcp4OffPID       = 20

	tcp6OffLocalPort = 20
	tcp6OffState     = 48
	tcp6OffPID       = 52

	udp4OffLocalPort = 4
	udp4OffPID       = 8

	udp6OffLocalPort = 20
	udp6OffPID       = 24
)

func decodeTCP4Table(buf []byte) ([]tableRow, error) {
	return decodeTable(buf, tcp4RowSize, func(row []byte) tableRow {
		return tableRow{
			localPort: portFromDWORD(binary.LittleEndian.Uint32(row[tcp4OffLocalPort:])),
			pid:       binary.LittleEndian.Uint32(row[tcp4OffPID:]),
			state:     binary.LittleEndian.Uint32(row[tcp4OffState:]),
		}
	})
}

func decodeTCP6Table(buf []byte) ([]tableRow, error) {
	return decodeTable(buf, tcp6RowSize, func(row []byte) tableRow {
		return tableRow{
			localPort: portFromDWORD(binary.LittleEndian.Uint32(row[tcp6OffLocalPort:])),
			pid:       binary.LittleEndian.Uint32(row[tcp6OffPID:]),
			state:     binary.LittleEndian.Uint32(row[tcp6OffState:]),
		}
	})
}

func decodeUDP4Table(buf []byte) ([]tableRow, error) {
	return decodeTable(buf, udp4RowSize, func(row []byte) tableRow {
		return tableRow{
			localPort: portFromDWORD(binary.LittleEndian.Uint32(row[udp4OffLocalPort:])),
			pid:       binary.LittleEndian.Uint32(row[udp4OffPID:]),
		}
	})
}

func decodeUDP6Table(buf []byte) ([]tableRow, error) {
	return decodeTable(buf, udp6RowSize, func(row []byte) tableRow {
		return tableRow{
			localPort: portFromDWORD(binary.LittleEndian.Uint32(row[udp6OffLocalPort:])),
			pid:       binary.LittleEndian.Uint32(row[udp6OffPID:]),
		}
	})
}

// decodeTable validates the buffer against its own entry count, then decodes
// each fixed-size row.
func decodeTable(buf []byte, rowSize int, decode func(row []byte) tableRow) ([]tableRow, error) {
	if len(buf) < tableHeaderSize {
		return nil, fmt.Errorf("%w: buffer shorter than table header (%d bytes)", ErrBufferFetch, len(buf))
	}
	count := int(binary.LittleEndian.Uint32(buf))
	need := tableHeaderSize + count*rowSize
	if len(buf) < need {
		return nil, fmt.Errorf("%w: table declares %d entries (%d bytes) but buffer holds %d",
			ErrBufferFetch, count, need, len(buf))
	}

	rows := make([]tableRow, 0, count)
	for i := 0; i < count; i++ {
		start := tableHeaderSize + i*rowSize
		rows = append(rows, decode(buf[start:start+rowSize]))
	}
	return rows, nil
}

// portFromDWORD converts the dwLocalPort field, whose low 16 bits hold the
// port in network byte order, to host order.
func portFromDWORD(v uint32) uint16 {
	p := uint16(v)
	return p>>8 | p<<8
}
