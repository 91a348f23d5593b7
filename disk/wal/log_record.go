package wal

import (
	"perch/disk"
	"perch/disk/pages"
)

type LogRecordType uint8

const (
	TypeInvalid LogRecordType = iota
	TypeAllocPage
	TypeFreePage
	TypePageUpdate
)

type LogRecord struct {
	T   LogRecordType
	Lsn pages.LSN

	PageID disk.PageID

	// for page updates
	Payload []byte
}

func (l *LogRecord) Type() LogRecordType {
	return l.T
}

func NewAllocPageLogRecord(pageID disk.PageID) *LogRecord {
	return &LogRecord{T: TypeAllocPage, PageID: pageID}
}

func NewFreePageLogRecord(pageID disk.PageID) *LogRecord {
	return &LogRecord{T: TypeFreePage, PageID: pageID}
}

func NewPageUpdateLogRecord(pageID disk.PageID, payload []byte) *LogRecord {
	return &LogRecord{T: TypePageUpdate, PageID: pageID, Payload: payload}
}
