package disk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDBName(t *testing.T) string {
	t.Helper()
	id, _ := uuid.NewUUID()
	return t.TempDir() + "/" + id.String()
}

func TestDiskManager_Should_Allocate_Sequential_Page_Ids(t *testing.T) {
	d, created, err := NewDiskManager(tempDBName(t))
	require.NoError(t, err)
	defer d.Close()

	assert.True(t, created)
	assert.Equal(t, PageID(0), d.AllocatePage())
	assert.Equal(t, PageID(1), d.AllocatePage())
	assert.Equal(t, PageID(2), d.AllocatePage())
}

func TestDiskManager_Should_Round_Trip_Pages(t *testing.T) {
	d, _, err := NewDiskManager(tempDBName(t))
	require.NoError(t, err)
	defer d.Close()

	p0 := d.AllocatePage()
	p1 := d.AllocatePage()

	data := make([]byte, PageSize)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, d.WritePage(p1, data))
	require.NoError(t, d.WritePage(p0, make([]byte, PageSize)))

	dest := make([]byte, PageSize)
	require.NoError(t, d.ReadPage(p1, dest))
	assert.Equal(t, data, dest)

	require.NoError(t, d.ReadPage(p0, dest))
	assert.Equal(t, make([]byte, PageSize), dest)
}

func TestDiskManager_Should_Reject_Non_Page_Sized_Buffers(t *testing.T) {
	d, _, err := NewDiskManager(tempDBName(t))
	require.NoError(t, err)
	defer d.Close()

	pid := d.AllocatePage()
	assert.Error(t, d.WritePage(pid, make([]byte, 10)))
	assert.Error(t, d.ReadPage(pid, make([]byte, 10)))
}

func TestDiskManager_Should_Reuse_Deallocated_Pages(t *testing.T) {
	d, _, err := NewDiskManager(tempDBName(t))
	require.NoError(t, err)
	defer d.Close()

	p0 := d.AllocatePage()
	p1 := d.AllocatePage()
	d.DeallocatePage(p0)

	assert.Equal(t, p0, d.AllocatePage())
	assert.Equal(t, p1+1, d.AllocatePage())
}

func TestDiskManager_Should_Persist_Allocator_State_Across_Reopen(t *testing.T) {
	name := tempDBName(t)

	d, _, err := NewDiskManager(name)
	require.NoError(t, err)

	p0 := d.AllocatePage()
	p1 := d.AllocatePage()
	require.NoError(t, d.WritePage(p0, make([]byte, PageSize)))
	require.NoError(t, d.WritePage(p1, make([]byte, PageSize)))
	d.DeallocatePage(p0)
	require.NoError(t, d.Close())

	d2, created, err := NewDiskManager(name)
	require.NoError(t, err)
	defer d2.Close()

	assert.False(t, created)
	assert.Equal(t, p0, d2.AllocatePage(), "deallocated page should survive reopen")
	assert.Equal(t, p1+1, d2.AllocatePage())
}

func TestMemManager_Should_Fail_Reads_Of_Unwritten_Pages(t *testing.T) {
	m := NewMemManager()

	dest := make([]byte, PageSize)
	assert.ErrorIs(t, m.ReadPage(3, dest), ErrPageNotOnDisk)

	data := make([]byte, PageSize)
	data[7] = 0x7
	require.NoError(t, m.WritePage(3, data))
	require.NoError(t, m.ReadPage(3, dest))
	assert.Equal(t, byte(0x7), dest[7])
}
