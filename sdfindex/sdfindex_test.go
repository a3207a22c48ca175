package sdfindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/rpcpool/pubchem-faithful/sdfstore"
)

const compoundRecord = "2244\n  -OEChem-\n\n  0  0  0     0  0  0  0  0  0999 V2000\nM  END\n$$$$\n"

const conformerRecord = "conf\n  -OEChem-\n\n  0  0  0     0  0  0  0  0  0999 V2000\nM  END\n> <PUBCHEM_CONFORMER_ID>\n00002244_00000001\n\n> <PUBCHEM_COMPOUND_CID>\n2244\n\n$$$$\n"

func writeCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "compound"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conformer"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "compound", "compounds_01.sdf"), []byte(compoundRecord), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conformer", "conformers_01.sdf"), []byte(conformerRecord), 0o644))
	return root
}

func buildTestIndex(t *testing.T) (root, indexDir string, meta sdfstore.Meta) {
	t.Helper()
	root = writeCorpus(t)
	indexDir = t.TempDir()
	m, err := BuildIndex(context.Background(), root, indexDir, BuildOptions{})
	require.NoError(t, err)
	return root, indexDir, m
}

func TestBuildIndexCounts(t *testing.T) {
	_, _, meta := buildTestIndex(t)
	require.EqualValues(t, 2, meta.TotalFiles)
	require.EqualValues(t, 2, meta.TotalRecords)
	require.EqualValues(t, 1, meta.TotalCompoundRecords)
	require.EqualValues(t, 1, meta.TotalConformerRecords)
}

func TestGetCompoundByCID(t *testing.T) {
	root, indexDir, _ := buildTestIndex(t)
	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	hit, ok, err := h.GetCompoundByCID(2244)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, hit.Locator.IsConformer)
	require.EqualValues(t, 2244, hit.Locator.CID)

	body, err := h.ReadSegment(root, hit.Locator)
	require.NoError(t, err)
	require.Contains(t, string(body), "2244")
	require.Contains(t, string(body), "$$$$")

	_, ok, err = h.GetCompoundByCID(9999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetConformerByConformerID(t *testing.T) {
	_, indexDir, _ := buildTestIndex(t)
	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	hit, ok, err := h.GetConformerByConformerID("00002244_00000001")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, hit.Locator.IsConformer)
	require.EqualValues(t, 2244, hit.Locator.CID)

	_, ok, err = h.GetConformerByConformerID("not-a-real-id")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetByALIDProbesBothKinds(t *testing.T) {
	_, indexDir, _ := buildTestIndex(t)
	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	compoundHit, ok, err := h.GetCompoundByCID(2244)
	require.NoError(t, err)
	require.True(t, ok)

	byALID, ok, err := h.GetByALID(compoundHit.ALID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, compoundHit.Locator, byALID.Locator)
}

func TestIterConformersByCID(t *testing.T) {
	_, indexDir, _ := buildTestIndex(t)
	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	var seen []IndexHit
	err = h.IterConformersByCID(2244, func(hit IndexHit) bool {
		seen = append(seen, hit)
		return true
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.True(t, seen[0].Locator.IsConformer)
}

func TestBatchGetCompoundsByCID(t *testing.T) {
	_, indexDir, _ := buildTestIndex(t)
	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	hits, found, err := h.BatchGetCompoundsByCID([]int64{2244, 9999})
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, found)
	require.EqualValues(t, 2244, hits[0].Locator.CID)
}

// TestDanglingSecondaryIndexIsNotFound writes a secondary-index entry that
// points at a primary key absent from the records table and checks that
// lookups report it as a miss rather than surfacing an error.
func TestDanglingSecondaryIndexIsNotFound(t *testing.T) {
	indexDir := t.TempDir()
	store, err := sdfstore.Open(filepath.Join(indexDir, storeFileName))
	require.NoError(t, err)

	bogusKey := sdfstore.PrimaryKey(sdfstore.PrefixCompound, [16]byte{0xde, 0xad})
	err = store.Update(func(tx *sdfstore.Tx) error {
		return tx.PutCIDToCompound(424242, bogusKey)
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	_, ok, err := h.GetCompoundByCID(424242)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetMeta(t *testing.T) {
	root, indexDir, _ := buildTestIndex(t)
	h, err := OpenIndex(indexDir)
	require.NoError(t, err)
	defer h.Close()

	m, err := h.GetMeta()
	require.NoError(t, err)
	require.Equal(t, root, m.RootDir)
	require.EqualValues(t, sdfstore.SchemaVersion, m.SchemaVersion)
}

// TestRebuildIsByteIdenticalPerALID builds the same corpus into two index
// directories and checks that CID 2244 resolves to the same ALID in both
// and that its record bytes have the same xxhash checksum both times, a
// cheap way to assert determinism without comparing the buffers directly.
func TestRebuildIsByteIdenticalPerALID(t *testing.T) {
	root := writeCorpus(t)

	indexDirA := t.TempDir()
	_, err := BuildIndex(context.Background(), root, indexDirA, BuildOptions{})
	require.NoError(t, err)
	indexDirB := t.TempDir()
	_, err = BuildIndex(context.Background(), root, indexDirB, BuildOptions{})
	require.NoError(t, err)

	hA, err := OpenIndex(indexDirA)
	require.NoError(t, err)
	defer hA.Close()
	hB, err := OpenIndex(indexDirB)
	require.NoError(t, err)
	defer hB.Close()

	hitA, ok, err := hA.GetCompoundByCID(2244)
	require.NoError(t, err)
	require.True(t, ok)
	hitB, ok, err := hB.GetCompoundByCID(2244)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, hitA.ALID, hitB.ALID)

	bodyA, err := hA.ReadSegment(root, hitA.Locator)
	require.NoError(t, err)
	bodyB, err := hB.ReadSegment(root, hitB.Locator)
	require.NoError(t, err)
	require.Equal(t, xxhash.Sum64(bodyA), xxhash.Sum64(bodyB))
}
