package raptorq

import (
	"encoding/binary"
	"fmt"

	"github.com/nathanhack/raptorq/systematic"
)

const (
	//MaxTransferLength is the largest object that can be described (RFC 6330 section 4.2).
	MaxTransferLength = 942574504275
	//DefaultAlignment is the symbol alignment used by GenerateEncodingParameters.
	DefaultAlignment = 8
	//DefaultDecoderMemory bounds the size of one source block in bytes.
	DefaultDecoderMemory = 10 * 1024 * 1024

	otiSize = 12
)

//ObjectTransmissionInformation holds the FEC parameters an encoder and decoder share (RFC 6330 section 3.3).
type ObjectTransmissionInformation struct {
	TransferLength  uint64 `json:"transfer_length"`
	SymbolSize      uint16 `json:"symbol_size"`
	NumSourceBlocks uint8  `json:"num_source_blocks"`
	NumSubBlocks    uint16 `json:"num_sub_blocks"`
	SymbolAlignment uint8  `json:"symbol_alignment"`
}

func NewObjectTransmissionInformation(transferLength uint64, symbolSize uint16, numSourceBlocks uint8, symbolAlignment uint8) (ObjectTransmissionInformation, error) {
	oti := ObjectTransmissionInformation{
		TransferLength:  transferLength,
		SymbolSize:      symbolSize,
		NumSourceBlocks: numSourceBlocks,
		NumSubBlocks:    1,
		SymbolAlignment: symbolAlignment,
	}
	return oti, oti.Validate()
}

//Validate checks the ranges of RFC 6330 section 3.3.2 and that every block fits the systematic table.
func (oti ObjectTransmissionInformation) Validate() error {
	if oti.TransferLength > MaxTransferLength {
		return fmt.Errorf("transfer length %v exceeds %v", oti.TransferLength, uint64(MaxTransferLength))
	}
	if oti.SymbolAlignment == 0 {
		return fmt.Errorf("symbol alignment must be positive")
	}
	if oti.SymbolSize == 0 || oti.SymbolSize%uint16(oti.SymbolAlignment) != 0 {
		return fmt.Errorf("symbol size %v must be a positive multiple of the alignment %v", oti.SymbolSize, oti.SymbolAlignment)
	}
	if oti.NumSourceBlocks == 0 {
		return fmt.Errorf("number of source blocks must be positive")
	}
	if oti.NumSubBlocks != 1 {
		return fmt.Errorf("only one sub-block is supported, found %v", oti.NumSubBlocks)
	}
	if kt := oti.SourceSymbols(); kt > 0 && kt < int(oti.NumSourceBlocks) {
		return fmt.Errorf("%v source symbols cannot fill %v source blocks", kt, oti.NumSourceBlocks)
	}
	if kl, _, _, _ := oti.blockLayout(); kl > systematic.MaxSourceSymbolsPerBlock {
		return fmt.Errorf("source blocks of %v symbols exceed the maximum of %v", kl, systematic.MaxSourceSymbolsPerBlock)
	}
	return nil
}

//SourceSymbols is Kt, the number of symbols of the object.
func (oti ObjectTransmissionInformation) SourceSymbols() int {
	t := uint64(oti.SymbolSize)
	return int((oti.TransferLength + t - 1) / t)
}

//blockLayout returns the sizes of the large and small blocks and how many of each there are.
func (oti ObjectTransmissionInformation) blockLayout() (kl, ks, zl, zs int) {
	return systematic.Partition(oti.SourceSymbols(), int(oti.NumSourceBlocks))
}

//BlockSymbols returns K for source block sbn.
func (oti ObjectTransmissionInformation) BlockSymbols(sbn int) int {
	kl, ks, zl, _ := oti.blockLayout()
	if sbn < zl {
		return kl
	}
	return ks
}

func (oti ObjectTransmissionInformation) String() string {
	return fmt.Sprintf("{F:%v T:%v Z:%v N:%v Al:%v}", oti.TransferLength, oti.SymbolSize, oti.NumSourceBlocks, oti.NumSubBlocks, oti.SymbolAlignment)
}

//GenerateEncodingParameters picks the symbol size and block count for an object of transferLength
//bytes sent in packets of at most maxPacketSize bytes (RFC 6330 section 4.3). A decoderMemory of zero
//uses DefaultDecoderMemory.
func GenerateEncodingParameters(transferLength uint64, maxPacketSize uint16, decoderMemory uint64) (ObjectTransmissionInformation, error) {
	if transferLength == 0 {
		return ObjectTransmissionInformation{}, fmt.Errorf("transfer length must be positive")
	}
	if transferLength > MaxTransferLength {
		return ObjectTransmissionInformation{}, fmt.Errorf("transfer length %v exceeds %v", transferLength, uint64(MaxTransferLength))
	}
	if maxPacketSize < DefaultAlignment {
		return ObjectTransmissionInformation{}, fmt.Errorf("packet size %v is smaller than the alignment %v", maxPacketSize, DefaultAlignment)
	}
	if decoderMemory == 0 {
		decoderMemory = DefaultDecoderMemory
	}

	symbolSize := maxPacketSize - maxPacketSize%DefaultAlignment
	limit := decoderMemory / uint64(symbolSize)
	if limit > systematic.MaxSourceSymbolsPerBlock {
		limit = systematic.MaxSourceSymbolsPerBlock
	}
	kl := systematic.LargestExtendedSourceBlockSymbols(int(limit))
	if kl == 0 {
		return ObjectTransmissionInformation{}, fmt.Errorf("decoder memory %v cannot hold a block of %v byte symbols", decoderMemory, symbolSize)
	}

	kt := (transferLength + uint64(symbolSize) - 1) / uint64(symbolSize)
	z := (kt + uint64(kl) - 1) / uint64(kl)
	if z > 255 {
		return ObjectTransmissionInformation{}, fmt.Errorf("object needs %v source blocks, at most 255 are allowed", z)
	}
	return NewObjectTransmissionInformation(transferLength, symbolSize, uint8(z), DefaultAlignment)
}

//MarshalBinary writes the common FEC OTI followed by the scheme-specific FEC OTI (RFC 6330 sections 3.3.2 and 3.3.3).
func (oti ObjectTransmissionInformation) MarshalBinary() ([]byte, error) {
	if err := oti.Validate(); err != nil {
		return nil, err
	}
	result := make([]byte, otiSize)
	// 40 bit F then 8 reserved bits
	binary.BigEndian.PutUint64(result[0:8], oti.TransferLength<<24)
	binary.BigEndian.PutUint16(result[6:8], oti.SymbolSize)
	result[8] = oti.NumSourceBlocks
	binary.BigEndian.PutUint16(result[9:11], oti.NumSubBlocks)
	result[11] = oti.SymbolAlignment
	return result, nil
}

func (oti *ObjectTransmissionInformation) UnmarshalBinary(data []byte) error {
	if len(data) != otiSize {
		return fmt.Errorf("expected %v bytes of OTI but found %v", otiSize, len(data))
	}
	var result ObjectTransmissionInformation
	result.TransferLength = binary.BigEndian.Uint64(data[0:8]) >> 24
	result.SymbolSize = binary.BigEndian.Uint16(data[6:8])
	result.NumSourceBlocks = data[8]
	result.NumSubBlocks = binary.BigEndian.Uint16(data[9:11])
	result.SymbolAlignment = data[11]
	if err := result.Validate(); err != nil {
		return err
	}
	*oti = result
	return nil
}
