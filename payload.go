package raptorq

import (
	"encoding/binary"
	"fmt"
)

const (
	//MaxEncodingSymbolID is the largest ESI that fits the 24 bit field of a payload id.
	MaxEncodingSymbolID = 1<<24 - 1

	payloadIDSize = 4
)

//PayloadID identifies the symbol carried by a packet (RFC 6330 section 3.2).
type PayloadID struct {
	SourceBlockNumber uint8
	EncodingSymbolID  uint32
}

func (id PayloadID) MarshalBinary() ([]byte, error) {
	if id.EncodingSymbolID > MaxEncodingSymbolID {
		return nil, fmt.Errorf("encoding symbol id %v exceeds %v", id.EncodingSymbolID, MaxEncodingSymbolID)
	}
	result := make([]byte, payloadIDSize)
	binary.BigEndian.PutUint32(result, uint32(id.SourceBlockNumber)<<24|id.EncodingSymbolID)
	return result, nil
}

func (id *PayloadID) UnmarshalBinary(data []byte) error {
	if len(data) != payloadIDSize {
		return fmt.Errorf("expected %v bytes of payload id but found %v", payloadIDSize, len(data))
	}
	value := binary.BigEndian.Uint32(data)
	id.SourceBlockNumber = uint8(value >> 24)
	id.EncodingSymbolID = value & MaxEncodingSymbolID
	return nil
}

func (id PayloadID) String() string {
	return fmt.Sprintf("{SBN:%v ESI:%v}", id.SourceBlockNumber, id.EncodingSymbolID)
}

//EncodingPacket is a payload id followed by one encoding symbol.
type EncodingPacket struct {
	PayloadID
	Data []byte
}

func (p EncodingPacket) MarshalBinary() ([]byte, error) {
	id, err := p.PayloadID.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(id, p.Data...), nil
}

func (p *EncodingPacket) UnmarshalBinary(data []byte) error {
	if len(data) < payloadIDSize {
		return fmt.Errorf("packet of %v bytes is too short", len(data))
	}
	if err := p.PayloadID.UnmarshalBinary(data[:payloadIDSize]); err != nil {
		return err
	}
	p.Data = append([]byte(nil), data[payloadIDSize:]...)
	return nil
}
