package disk

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

var ErrPageNotOnDisk = errors.New("page does not exist on disk")

// MemManager is an in memory IDiskManager. It is deterministic and keeps simple
// counters, which makes it the disk of choice in tests. ReadErr and WriteErr, when
// set, are consulted before each io so that tests can inject disk failures.
type MemManager struct {
	pages      map[PageID][]byte
	lastPageID PageID
	freed      []PageID
	mu         sync.Mutex

	Reads  int
	Writes int

	ReadErr  func(pageID PageID) error
	WriteErr func(pageID PageID) error
}

var _ IDiskManager = &MemManager{}

func NewMemManager() *MemManager {
	return &MemManager{
		pages:      map[PageID][]byte{},
		lastPageID: -1,
	}
}

func (m *MemManager) ReadPage(pageID PageID, dest []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		if err := m.ReadErr(pageID); err != nil {
			return err
		}
	}

	data, ok := m.pages[pageID]
	if !ok {
		return errors.Wrapf(ErrPageNotOnDisk, "page %d", pageID)
	}

	m.Reads++
	copy(dest, data)
	return nil
}

func (m *MemManager) WritePage(pageID PageID, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		if err := m.WriteErr(pageID); err != nil {
			return err
		}
	}

	if len(data) != PageSize {
		return errors.Errorf("data is not page sized: %d", len(data))
	}

	m.Writes++
	cp := make([]byte, PageSize)
	copy(cp, data)
	m.pages[pageID] = cp
	return nil
}

func (m *MemManager) AllocatePage() PageID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.freed) > 0 {
		pageID := m.freed[0]
		m.freed = m.freed[1:]
		return pageID
	}

	m.lastPageID++
	return m.lastPageID
}

func (m *MemManager) DeallocatePage(pageID PageID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pages, pageID)
	m.freed = append(m.freed, pageID)
}

func (m *MemManager) GetLogWriter() io.Writer {
	return io.Discard
}

func (m *MemManager) Close() error {
	return nil
}
