package disk

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"perch/logger"
)

type IDiskManager interface {
	// ReadPage reads the page with the given id into dest which must be PageSize long.
	ReadPage(pageID PageID, dest []byte) error

	// WritePage writes data which must be PageSize long to the page with the given id.
	WritePage(pageID PageID, data []byte) error

	// AllocatePage returns an unused page id. Deallocated ids may be reused.
	AllocatePage() PageID

	// DeallocatePage marks pageID available for future allocation.
	DeallocatePage(pageID PageID)

	Close() error

	GetLogWriter() io.Writer
}

// FlushInstantly should normally be set to true. If it is false then data might be lost even after a successful write
// operation when power loss occurs before os flushes its io buffers. But when it is false, one thread tests runs faster
// thanks to io scheduling of os, so for development it could be set to false. Setting it to false should not change
// the validity of any tests unless a test is simulating a power loss.
const FlushInstantly bool = false

type Manager struct {
	file         *os.File
	filename     string
	logFile      *os.File
	logFileName  string
	metaFileName string
	mu           sync.Mutex
	serializer   IMetaSerializer
	meta         meta
}

var _ IDiskManager = &Manager{}

// NewDiskManager opens or creates the database file at path and its sidecar wal and meta
// files. Second return value reports whether a new database file is created.
func NewDiskManager(path string) (IDiskManager, bool, error) {
	d := Manager{}
	d.serializer = jsonSerializer{}
	d.filename = path
	d.logFileName = path + ".log"
	d.metaFileName = path + ".meta"

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, os.ModePerm)
	if err != nil {
		return nil, false, err
	}

	lf, err := os.OpenFile(d.logFileName, os.O_CREATE|os.O_RDWR|os.O_APPEND, os.ModePerm)
	if err != nil {
		return nil, false, err
	}

	d.logFile = lf
	d.file = f
	stats, _ := f.Stat()

	filesize := stats.Size()
	logger.Infof("db is initializing, file size is %d", filesize)

	if mb, err := os.ReadFile(d.metaFileName); err == nil {
		m, err := d.serializer.readMeta(mb)
		if err != nil {
			return nil, false, errors.Wrap(err, "corrupt meta file")
		}
		d.meta = m
		return &d, false, nil
	}

	// no meta file. derive allocation state from file size alone.
	d.meta = meta{LastPageID: PageID(filesize/int64(PageSize)) - 1}
	return &d, filesize == 0, nil
}

func (d *Manager) ReadPage(pageID PageID, dest []byte) error {
	if len(dest) != PageSize {
		return errors.Errorf("destination buffer is not page sized: %d", len(dest))
	}

	if _, err := d.file.ReadAt(dest, int64(PageSize)*int64(pageID)); err != nil {
		return errors.Wrapf(err, "read of page %d failed", pageID)
	}

	return nil
}

func (d *Manager) WritePage(pageID PageID, data []byte) error {
	if len(data) != PageSize {
		return errors.Errorf("data is not page sized: %d", len(data))
	}

	if _, err := d.file.WriteAt(data, int64(PageSize)*int64(pageID)); err != nil {
		return errors.Wrapf(err, "write of page %d failed", pageID)
	}

	if FlushInstantly {
		if err := d.file.Sync(); err != nil {
			return errors.Wrapf(err, "sync after write of page %d failed", pageID)
		}
	}

	return nil
}

func (d *Manager) AllocatePage() PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	// reuse a deallocated page if there is one
	if n := len(d.meta.FreePages); n > 0 {
		pageID := d.meta.FreePages[0]
		d.meta.FreePages = d.meta.FreePages[1:]
		return pageID
	}

	d.meta.LastPageID++
	return d.meta.LastPageID
}

func (d *Manager) DeallocatePage(pageID PageID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range d.meta.FreePages {
		if p == pageID {
			return
		}
	}
	d.meta.FreePages = append(d.meta.FreePages, pageID)
}

func (d *Manager) GetLogWriter() io.Writer {
	return d.logFile
}

func (d *Manager) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.WriteFile(d.metaFileName, d.serializer.encodeMeta(d.meta), os.ModePerm); err != nil {
		return err
	}
	if err := d.logFile.Close(); err != nil {
		return err
	}
	return d.file.Close()
}
