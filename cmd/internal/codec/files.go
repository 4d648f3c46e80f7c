package codec

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nathanhack/raptorq"
)

const (
	OTIFile     = "oti.json"
	PacketsFile = "packets.bin"
)

//WritePackets writes each packet as a 4 byte big endian length followed by the marshaled packet.
func WritePackets(w io.Writer, packets []raptorq.EncodingPacket) error {
	bw := bufio.NewWriter(w)
	length := make([]byte, 4)
	for _, p := range packets {
		bs, err := p.MarshalBinary()
		if err != nil {
			return err
		}
		binary.BigEndian.PutUint32(length, uint32(len(bs)))
		if _, err := bw.Write(length); err != nil {
			return err
		}
		if _, err := bw.Write(bs); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ReadPackets(r io.Reader) ([]raptorq.EncodingPacket, error) {
	br := bufio.NewReader(r)
	length := make([]byte, 4)
	result := make([]raptorq.EncodingPacket, 0)
	for {
		if _, err := io.ReadFull(br, length); err != nil {
			if errors.Is(err, io.EOF) {
				return result, nil
			}
			return nil, fmt.Errorf("error reading packet %v: %v", len(result), err)
		}
		bs := make([]byte, binary.BigEndian.Uint32(length))
		if _, err := io.ReadFull(br, bs); err != nil {
			return nil, fmt.Errorf("error reading packet %v: %v", len(result), err)
		}
		var p raptorq.EncodingPacket
		if err := p.UnmarshalBinary(bs); err != nil {
			return nil, fmt.Errorf("error reading packet %v: %v", len(result), err)
		}
		result = append(result, p)
	}
}

func SaveOTI(dir string, oti raptorq.ObjectTransmissionInformation) error {
	bs, err := json.Marshal(oti)
	if err != nil {
		return fmt.Errorf("error serializing OTI: %v", err)
	}
	return os.WriteFile(filepath.Join(dir, OTIFile), bs, 0644)
}

func LoadOTI(dir string) (raptorq.ObjectTransmissionInformation, error) {
	var oti raptorq.ObjectTransmissionInformation
	bs, err := os.ReadFile(filepath.Join(dir, OTIFile))
	if err != nil {
		return oti, fmt.Errorf("error while reading OTI: %v", err)
	}
	if err := json.Unmarshal(bs, &oti); err != nil {
		return oti, fmt.Errorf("error while unmarshalling OTI: %v", err)
	}
	return oti, oti.Validate()
}
