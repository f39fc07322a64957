package cfb

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "cfb-*.bin")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCreateEmptyDocument(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	opened, err := Open(f)
	require.NoError(t, err)
	defer opened.Close()

	require.True(t, opened.Contains("/", RootStorage))
	require.False(t, opened.Contains("/Nothing", UserStream))
}

func TestStreamRoundTripMiniStream(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)

	payload := []byte("a small workbook property blob")
	w, err := doc.OpenWriteStream("/SummaryInformation")
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, doc.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	opened, err := Open(f)
	require.NoError(t, err)
	defer opened.Close()

	require.True(t, opened.Contains("/SummaryInformation", UserStream))
	r, err := opened.OpenReadStream("/SummaryInformation")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	// root entry's mini-stream size invariant: size equals short
	// sectors used x short sector size, not the SSAT's full capacity.
	wantShortSectors := ceilDiv(uint64(len(payload)), uint64(opened.header.ShortSectorSize()))
	require.Equal(t, wantShortSectors*uint64(opened.header.ShortSectorSize()), opened.entries[0].Size)
}

func TestStreamRoundTripFullStream(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)

	payload := make([]byte, int(DefaultMiniCutoff)+10000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	w, err := doc.OpenWriteStream("/Workbook")
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, doc.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	opened, err := Open(f)
	require.NoError(t, err)
	defer opened.Close()

	r, err := opened.OpenReadStream("/Workbook")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestNestedStorageCreation(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)

	w, err := doc.OpenWriteStream("/Macros/VBA/Module1")
	require.NoError(t, err)
	_, err = w.Write([]byte("Sub Main()\nEnd Sub\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, doc.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	opened, err := Open(f)
	require.NoError(t, err)
	defer opened.Close()

	require.True(t, opened.Contains("/Macros", UserStorage))
	require.True(t, opened.Contains("/Macros/VBA", UserStorage))
	require.True(t, opened.Contains("/Macros/VBA/Module1", UserStream))
}

func TestCaseInsensitiveCollision(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)
	defer doc.Close()

	w, err := doc.OpenWriteStream("/Workbook")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = doc.OpenWriteStream("/WORKBOOK")
	require.Error(t, err)
}

func TestManyStreamsGrowAllocationTables(t *testing.T) {
	f := tempFile(t)
	doc, err := Create(f)
	require.NoError(t, err)

	const n = 200
	for i := 0; i < n; i++ {
		w, err := doc.OpenWriteStream(streamName(i))
		require.NoError(t, err)
		_, err = w.Write([]byte(streamName(i)))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	require.NoError(t, doc.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	opened, err := Open(f)
	require.NoError(t, err)
	defer opened.Close()

	count := 0
	require.NoError(t, opened.Walk(func(path string, entry *DirEntry) error {
		count++
		return nil
	}))
	require.Equal(t, n, count)

	for i := 0; i < n; i++ {
		r, err := opened.OpenReadStream(streamName(i))
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, streamName(i), string(got))
	}
}

func streamName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return "/stream-" + string(letters[i%len(letters)]) + string(letters[(i/len(letters))%len(letters)])
}
