package buffer

import (
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"perch/common"
	"perch/disk"
	"perch/disk/pages"
	"perch/disk/wal"
	"perch/logger"
)

var ErrPageNotFoundInPageMap = errors.New("page cannot be found in the page map")
var ErrPageInUse = errors.New("page is pinned and cannot be deleted")

type Pool interface {
	GetPage(pageId disk.PageID) (*pages.RawPage, error)
	Unpin(pageId disk.PageID, isDirty bool) bool
	FlushPage(pageId disk.PageID) error
	FlushAll() error

	// NewPage allocates a page on disk and returns it pinned. Its content is not
	// read from disk.
	NewPage() (page *pages.RawPage, err error)

	// DeletePage drops a page from the pool and deallocates it on disk. Returns
	// ErrPageInUse if the page is pinned. Deleting a page that is not resident only
	// deallocates it.
	DeletePage(pageId disk.PageID) error

	// EmptyFrameSize returns the number of frames which do not hold data of any physical page
	EmptyFrameSize() int
}

type frame struct {
	page *pages.RawPage
}

var _ Pool = &BufferPool{}

// BufferPool caches disk pages in a fixed set of frames. A single mutex covers the
// page map, the free frame list, all frame metadata and the replacer calls it makes,
// and it is held across disk io so that loads and write backs cannot race with page
// map mutations. The replacer has its own lock and is always called with the pool
// lock held; it must never call back into the pool.
type BufferPool struct {
	poolSize    int
	frames      []*frame
	pageMap     map[disk.PageID]int // physical page_id => frame index which keeps that page
	emptyFrames []int               // list of indexes that points to empty frames in the pool
	Replacer    IReplacer
	DiskManager disk.IDiskManager
	logManager  wal.LogManager
	lock        sync.Mutex
}

func NewBufferPool(dbFile string, poolSize int, logManager wal.LogManager) *BufferPool {
	d, _, err := disk.NewDiskManager(dbFile)
	common.PanicIfErr(err)
	return NewBufferPoolWithDM(poolSize, d, logManager)
}

func NewBufferPoolWithDM(poolSize int, dm disk.IDiskManager, logManager wal.LogManager) *BufferPool {
	emptyFrames := make([]int, poolSize)
	frames := make([]*frame, poolSize)
	for i := 0; i < poolSize; i++ {
		emptyFrames[i] = i
		frames[i] = &frame{page: pages.NewRawPage(disk.InvalidPageID)}
	}

	if logManager == nil {
		logManager = wal.NoopLM
	}

	return &BufferPool{
		poolSize:    poolSize,
		frames:      frames,
		pageMap:     map[disk.PageID]int{},
		emptyFrames: emptyFrames,
		Replacer:    NewLruReplacer(),
		DiskManager: dm,
		logManager:  logManager,
	}
}

// GetPage returns the page pinned. On a miss its content is read from disk, evicting
// another page when no frame is empty. Callers must Unpin the page when done with it.
func (b *BufferPool) GetPage(pageId disk.PageID) (*pages.RawPage, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if frameId, ok := b.pageMap[pageId]; ok {
		b.pin(pageId)
		return b.frames[frameId].page, nil
	}

	frameId, err := b.reserveOrEvict()
	if err != nil {
		return nil, err
	}

	p := b.frames[frameId].page
	p.Clear()
	if err := b.DiskManager.ReadPage(pageId, p.GetData()); err != nil {
		// frame holds no page anymore, push it back to the free list
		b.resetFrame(frameId)
		return nil, pkgerrors.Wrapf(err, "ReadPage failed: %d", pageId)
	}

	p.PageId = pageId
	p.PinCount = 1
	p.SetClean()
	b.pageMap[pageId] = frameId
	b.Replacer.Pin(frameId)
	return p, nil
}

// NewPage allocates a fresh page id and returns its zeroed page pinned.
func (b *BufferPool) NewPage() (*pages.RawPage, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	frameId, err := b.reserveOrEvict()
	if err != nil {
		return nil, err
	}

	newPageId := b.DiskManager.AllocatePage()
	b.logManager.AppendLog(wal.NewAllocPageLogRecord(newPageId))

	p := b.frames[frameId].page
	p.Clear()
	p.PageId = newPageId
	p.PinCount = 1
	p.SetClean()
	b.pageMap[newPageId] = frameId
	b.Replacer.Pin(frameId)
	return p, nil
}

// Unpin drops one pin from the page. With isDirty set the page is marked dirty; the
// flag is sticky and only cleared by a successful flush. Returns false if the page is
// not resident or not pinned.
func (b *BufferPool) Unpin(pageId disk.PageID, isDirty bool) bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	frameId, ok := b.pageMap[pageId]
	if !ok {
		return false
	}

	p := b.frames[frameId].page
	if p.GetPinCount() <= 0 {
		return false
	}

	if isDirty {
		p.SetDirty()
	}

	p.DecrPinCount()
	if p.GetPinCount() == 0 {
		b.Replacer.Unpin(frameId)
	}

	return true
}

// FlushPage syncs the page's content to disk if it is dirty. Pinned pages are
// flushable. Clean pages cause no io.
func (b *BufferPool) FlushPage(pageId disk.PageID) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.flushPage(pageId)
}

// flushPage is FlushPage without locking.
func (b *BufferPool) flushPage(pageId disk.PageID) error {
	frameId, ok := b.pageMap[pageId]
	if !ok {
		return ErrPageNotFoundInPageMap
	}

	p := b.frames[frameId].page
	if !p.IsDirty() {
		return nil
	}

	if err := b.writeBack(p); err != nil {
		return err
	}

	return nil
}

// FlushAll syncs every dirty page in the pool to disk.
func (b *BufferPool) FlushAll() error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := b.logManager.Flush(); err != nil {
		return err
	}

	for pid := range b.pageMap {
		if err := b.flushPage(pid); err != nil {
			return err
		}
	}

	return nil
}

// DeletePage removes the page from the pool, resets its frame and deallocates the id
// on disk. A page that is not resident is only deallocated.
func (b *BufferPool) DeletePage(pageId disk.PageID) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	frameId, ok := b.pageMap[pageId]
	if !ok {
		b.DiskManager.DeallocatePage(pageId)
		return nil
	}

	p := b.frames[frameId].page
	if p.GetPinCount() > 0 {
		return ErrPageInUse
	}

	delete(b.pageMap, pageId)
	b.Replacer.Pin(frameId) // not evictable anymore, it holds no page
	b.resetFrame(frameId)

	b.logManager.AppendLog(wal.NewFreePageLogRecord(pageId))
	b.DiskManager.DeallocatePage(pageId)
	return nil
}

func (b *BufferPool) EmptyFrameSize() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return len(b.emptyFrames)
}

// pin increments page's pin count and pins the frame that keeps the page to avoid it being chosen as victim
func (b *BufferPool) pin(pageId disk.PageID) {
	frameId, ok := b.pageMap[pageId]
	if !ok {
		panic(fmt.Sprintf("pinned a page which does not exist: %v", pageId))
	}

	b.frames[frameId].page.IncrPinCount()
	b.Replacer.Pin(frameId)
}

// reserveOrEvict returns a frame that holds no page, taking the free list first and
// evicting a victim otherwise. The returned frame is in neither the free list nor the
// replacer and its page metadata is stale.
func (b *BufferPool) reserveOrEvict() (int, error) {
	if len(b.emptyFrames) > 0 {
		frameId := b.emptyFrames[0]
		b.emptyFrames = b.emptyFrames[1:]
		return frameId, nil
	}

	return b.evictVictim()
}

// evictVictim chooses a victim frame, writes its page to disk if it is dirty and
// removes it from the page map. On a write back failure the eviction is rolled back
// and the victim stays resident.
func (b *BufferPool) evictVictim() (int, error) {
	victimFrameId, err := b.Replacer.ChooseVictim()
	if err != nil {
		return 0, err
	}

	victim := b.frames[victimFrameId].page
	if victim.GetPinCount() != 0 {
		panic(fmt.Sprintf("a page is chosen as victim while it's pin count is not zero. pin count: %v, page_id: %v", victim.GetPinCount(), victim.GetPageId()))
	}

	if victim.IsDirty() {
		if err := b.writeBack(victim); err != nil {
			logger.Warnf("write back of victim page %d failed: %v", victim.GetPageId(), err)
			b.Replacer.Unpin(victimFrameId)
			return 0, err
		}
	}

	delete(b.pageMap, victim.GetPageId())
	return victimFrameId, nil
}

// writeBack syncs a dirty page to disk and clears its dirty flag. Log records for the
// page are forced to disk first so that the wal never lags behind the data file.
func (b *BufferPool) writeBack(p *pages.RawPage) error {
	if p.GetPageLSN() > b.logManager.GetFlushedLSNOrZero() {
		if err := b.logManager.Flush(); err != nil {
			return err
		}
	}

	if err := b.DiskManager.WritePage(p.GetPageId(), p.GetData()); err != nil {
		return err
	}

	p.SetClean()
	return nil
}

// resetFrame clears a frame that holds no page anymore and appends it to the free list.
func (b *BufferPool) resetFrame(frameId int) {
	p := b.frames[frameId].page
	p.Clear()
	p.PageId = disk.InvalidPageID
	p.PinCount = 0
	p.SetClean()
	b.emptyFrames = append(b.emptyFrames, frameId)
}
