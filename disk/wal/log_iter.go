package wal

import (
	"bufio"
	"encoding/binary"
	"io"
)

// LogIter iterates over the length framed records produced by BufferedLogManager.
type LogIter struct {
	r     *bufio.Reader
	serde LogRecordSerDe
}

func NewLogIter(r io.Reader) *LogIter {
	return &LogIter{r: bufio.NewReader(r), serde: NewBinarySerDe()}
}

// Next returns the next record or io.EOF when the log is exhausted.
func (it *LogIter) Next() (*LogRecord, error) {
	n, err := binary.ReadUvarint(it.r)
	if err != nil {
		return nil, err
	}

	d := make([]byte, n)
	if _, err := io.ReadFull(it.r, d); err != nil {
		return nil, err
	}

	var lr LogRecord
	if err := it.serde.Deserialize(d, &lr); err != nil {
		return nil, err
	}

	return &lr, nil
}
