package buffer

import (
	"perch/disk"
	"perch/disk/pages"
)

const (
	Read = iota
	Write
)

// GetPageReleaser fetches the page latched in the given mode and wraps it so that one
// Release call drops both the latch and the pin.
func (b *BufferPool) GetPageReleaser(pageId disk.PageID, mode int) (PageReleaser, error) {
	p, err := b.GetPage(pageId)
	if err != nil {
		return nil, err
	}
	if mode == Read {
		p.RLatch()
		return &readPageReleaser{p, b}, nil
	}
	p.WLatch()
	return &writePageReleaser{p, b}, nil
}

func (b *BufferPool) NewPageWithReleaser() (PageReleaser, error) {
	p, err := b.NewPage()
	if err != nil {
		return nil, err
	}
	p.WLatch()
	return &writePageReleaser{p, b}, nil
}

type PageReleaser interface {
	pages.IPage
	Release(dirty bool)
}

type readPageReleaser struct {
	pages.IPage
	pool *BufferPool
}

func (n *readPageReleaser) Release(bool) {
	n.pool.Unpin(n.GetPageId(), false)
	n.RUnLatch()
}

type writePageReleaser struct {
	pages.IPage
	pool *BufferPool
}

func (n *writePageReleaser) Release(isDirty bool) {
	n.pool.Unpin(n.GetPageId(), isDirty)
	n.WUnlatch()
}
