package buffer

import (
	"container/list"
	"sync"
)

// LruReplacer evicts the frame whose first Unpin happened longest ago. Unpin inserts
// at the front of the list and ChooseVictim pops from the back, so the least recently
// unpinned frame is always the back element. Unpin on a frame that is already tracked
// keeps its position; only a Pin/Unpin cycle moves a frame to the front.
//
// frameMap keeps each frame's list element so that all three operations are O(1).
type LruReplacer struct {
	unpinned *list.List
	frameMap map[int]*list.Element
	lock     sync.Mutex
}

var _ IReplacer = &LruReplacer{}

func NewLruReplacer() *LruReplacer {
	return &LruReplacer{
		unpinned: list.New(),
		frameMap: make(map[int]*list.Element),
	}
}

func (l *LruReplacer) Pin(frameId int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	e, ok := l.frameMap[frameId]
	if !ok {
		return
	}

	l.unpinned.Remove(e)
	delete(l.frameMap, frameId)
}

func (l *LruReplacer) Unpin(frameId int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.frameMap[frameId]; ok {
		return
	}

	l.frameMap[frameId] = l.unpinned.PushFront(frameId)
}

func (l *LruReplacer) ChooseVictim() (frameId int, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	e := l.unpinned.Back()
	if e == nil {
		return 0, ErrNoVictim
	}

	victim := l.unpinned.Remove(e).(int)
	delete(l.frameMap, victim)
	return victim, nil
}

func (l *LruReplacer) Size() int {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.unpinned.Len()
}
