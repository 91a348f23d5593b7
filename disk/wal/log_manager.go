package wal

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"

	"perch/disk/pages"
)

type LogManager interface {
	// AppendLog appends a log record to wal, sets its lsn and returns it. Records
	// are not durable until Flush.
	AppendLog(lr *LogRecord) pages.LSN

	// Flush makes every appended record durable.
	Flush() error

	// GetFlushedLSNOrZero returns the latest lsn persisted to disk.
	GetFlushedLSNOrZero() pages.LSN
}

// Syncer is implemented by writers that can force buffered bytes to stable storage.
type Syncer interface {
	Sync() error
}

type BufferedLogManager struct {
	// serde is used to convert between bytes and LogRecord.
	serde LogRecordSerDe

	currLsn    uint64
	flushedLsn uint64

	bufM sync.Mutex
	buf  []byte

	w io.Writer
}

var _ LogManager = &BufferedLogManager{}

func NewLogManager(w io.Writer) *BufferedLogManager {
	return &BufferedLogManager{
		serde: NewBinarySerDe(),
		buf:   make([]byte, 0, 1024*64),
		w:     w,
	}
}

func (l *BufferedLogManager) AppendLog(lr *LogRecord) pages.LSN {
	l.bufM.Lock()
	defer l.bufM.Unlock()

	lr.Lsn = pages.LSN(atomic.AddUint64(&l.currLsn, 1))

	// records are framed with their length so that an iterator can split them back
	b := l.serde.Serialize(lr)
	l.buf = binary.AppendUvarint(l.buf, uint64(len(b)))
	l.buf = append(l.buf, b...)

	return lr.Lsn
}

func (l *BufferedLogManager) Flush() error {
	l.bufM.Lock()
	defer l.bufM.Unlock()

	if len(l.buf) > 0 {
		if _, err := l.w.Write(l.buf); err != nil {
			return err
		}
		l.buf = l.buf[:0]
	}

	if s, ok := l.w.(Syncer); ok {
		if err := s.Sync(); err != nil {
			return err
		}
	}

	atomic.StoreUint64(&l.flushedLsn, atomic.LoadUint64(&l.currLsn))
	return nil
}

func (l *BufferedLogManager) GetFlushedLSNOrZero() pages.LSN {
	return pages.LSN(atomic.LoadUint64(&l.flushedLsn))
}
