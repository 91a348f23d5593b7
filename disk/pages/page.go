package pages

import (
	"sync"

	"perch/common"
	"perch/disk"
)

// IPage is a wrapper for actual physical pages in the file system. It can provide the actual content of the
// physical page as a byte array. It also keeps some useful information about the page for buffer pool.
type IPage interface {
	GetData() []byte

	// GetPageId returns the page_id of the physical page.
	GetPageId() disk.PageID
	GetPinCount() int
	IsDirty() bool
	SetDirty()
	SetClean()
	WLatch()
	WUnlatch()
	RLatch()
	RUnLatch()
	IncrPinCount()
	DecrPinCount()
}

type RawPage struct {
	PageId   disk.PageID
	isDirty  bool
	rwLatch  sync.RWMutex
	PinCount int
	Data     []byte
}

var _ IPage = &RawPage{}

func NewRawPage(pageId disk.PageID) *RawPage {
	return &RawPage{
		PageId:   pageId,
		isDirty:  false,
		rwLatch:  sync.RWMutex{},
		PinCount: 0,
		Data:     make([]byte, disk.PageSize),
	}
}

func (p *RawPage) IncrPinCount() {
	p.PinCount++
}

func (p *RawPage) DecrPinCount() {
	p.PinCount--
}

// GetData returns the whole page image including the lsn header.
func (p *RawPage) GetData() []byte {
	return p.Data
}

func (p *RawPage) GetPageId() disk.PageID {
	return p.PageId
}

func (p *RawPage) GetPinCount() int {
	return p.PinCount
}

func (p *RawPage) IsDirty() bool {
	return p.isDirty
}

func (p *RawPage) SetDirty() {
	p.isDirty = true
}

func (p *RawPage) SetClean() {
	p.isDirty = false
}

// GetPageLSN returns the lsn of the last log record that touched this page. It is
// kept in the first LSNSize bytes of the page image so that it survives eviction.
func (p *RawPage) GetPageLSN() LSN {
	return ReadLSN(p.Data)
}

func (p *RawPage) SetPageLSN(l LSN) {
	PutLSN(p.Data, l)
}

// Clear zeroes the page image.
func (p *RawPage) Clear() {
	common.ZeroBytes(p.Data)
}

func (p *RawPage) WLatch() {
	p.rwLatch.Lock()
}

func (p *RawPage) WUnlatch() {
	p.rwLatch.Unlock()
}

func (p *RawPage) RLatch() {
	p.rwLatch.RLock()
}

func (p *RawPage) RUnLatch() {
	p.rwLatch.RUnlock()
}
