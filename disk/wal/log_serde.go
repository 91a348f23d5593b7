package wal

import (
	"encoding/binary"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"perch/disk"
	"perch/disk/pages"
)

type LogRecordSerDe interface {
	Serialize(lr *LogRecord) []byte
	Deserialize(d []byte, lr *LogRecord) error
}

type BinarySerDe struct{}

var _ LogRecordSerDe = &BinarySerDe{}

func NewBinarySerDe() *BinarySerDe {
	return &BinarySerDe{}
}

func (b *BinarySerDe) Serialize(lr *LogRecord) []byte {
	res := make([]byte, 0, 32+len(lr.Payload))
	res = append(res, byte(lr.T))
	res = binary.AppendUvarint(res, uint64(lr.Lsn))
	res = binary.AppendVarint(res, int64(lr.PageID))
	res = binary.AppendUvarint(res, uint64(len(lr.Payload)))
	res = append(res, lr.Payload...)

	return snappy.Encode(nil, res)
}

func (b *BinarySerDe) Deserialize(d []byte, lr *LogRecord) error {
	data, err := snappy.Decode(nil, d)
	if err != nil {
		return errors.Wrap(err, "corrupt log record")
	}

	if len(data) < 1 {
		return errors.New("corrupt log record: empty")
	}

	lr.T = LogRecordType(data[0])
	offset := 1

	uvarint := func() (uint64, error) {
		res, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return 0, errors.New("corrupt log record")
		}
		offset += n
		return res, nil
	}

	lsn, err := uvarint()
	if err != nil {
		return err
	}
	lr.Lsn = pages.LSN(lsn)

	pid, n := binary.Varint(data[offset:])
	if n <= 0 {
		return errors.New("corrupt log record")
	}
	offset += n
	lr.PageID = disk.PageID(pid)

	plen, err := uvarint()
	if err != nil {
		return err
	}
	if offset+int(plen) > len(data) {
		return errors.New("corrupt log record: short payload")
	}
	lr.Payload = data[offset : offset+int(plen)]

	return nil
}
