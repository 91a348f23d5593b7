package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"perch/disk"
)

func TestRawPage_Lsn_Lives_In_The_Page_Header(t *testing.T) {
	p := NewRawPage(3)
	assert.Equal(t, ZeroLSN, p.GetPageLSN())

	p.SetPageLSN(42)
	assert.Equal(t, LSN(42), p.GetPageLSN())
	assert.Equal(t, LSN(42), ReadLSN(p.GetData()[:LSNSize]))

	p.Clear()
	assert.Equal(t, ZeroLSN, p.GetPageLSN())
}

func TestRawPage_Pin_And_Dirty_Bookkeeping(t *testing.T) {
	p := NewRawPage(disk.InvalidPageID)
	assert.Zero(t, p.GetPinCount())
	assert.False(t, p.IsDirty())

	p.IncrPinCount()
	p.IncrPinCount()
	p.DecrPinCount()
	assert.Equal(t, 1, p.GetPinCount())

	p.SetDirty()
	assert.True(t, p.IsDirty())
	p.SetClean()
	assert.False(t, p.IsDirty())

	assert.Len(t, p.GetData(), disk.PageSize)
}
