package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/storage"
)

func ops(seqs ...int) []storage.ConvertedOperation {
	out := make([]storage.ConvertedOperation, len(seqs))
	for i, s := range seqs {
		out[i] = storage.ConvertedOperation{ID: int64(i + 1), Sequence: s, OpName: string(rune('a' + i))}
	}
	return out
}

func seqs(list []storage.ConvertedOperation) []int {
	out := make([]int, len(list))
	for i, o := range list {
		out[i] = o.Sequence
	}
	return out
}

func names(list []storage.ConvertedOperation) string {
	s := ""
	for _, o := range list {
		s += o.OpName
	}
	return s
}

func TestInsert_AfterSecond(t *testing.T) {
	res, err := Insert(ops(10, 20, 30), InsertionPoint{Position: PositionAfter, AfterID: 2},
		storage.ConvertedOperation{OpName: "x"})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30, 40}, seqs(res.Ops))
	assert.Equal(t, "abxc", names(res.Ops))
	assert.Equal(t, 30, res.NewSequence)
	assert.Equal(t, []Update{{ID: 3, Sequence: 40}}, res.Updates)
}

func TestInsert_StartRenumbersEverything(t *testing.T) {
	res, err := Insert(ops(10, 20, 30), InsertionPoint{Position: PositionStart}, storage.ConvertedOperation{OpName: "x"})

	require.NoError(t, err)
	assert.Equal(t, "xabc", names(res.Ops))
	assert.Equal(t, 10, res.NewSequence)
	assert.Len(t, res.Updates, 3)
}

func TestInsert_EndAfterGaps(t *testing.T) {
	// после удалений остаются пропуски, вставка снова даёт плотную нумерацию
	res, err := Insert(ops(10, 40, 70), InsertionPoint{Position: PositionEnd}, storage.ConvertedOperation{OpName: "x"})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30, 40}, seqs(res.Ops))
	assert.Equal(t, "abcx", names(res.Ops))
	assert.Equal(t, 40, res.NewSequence)
	assert.Equal(t, []Update{{ID: 2, Sequence: 20}, {ID: 3, Sequence: 30}}, res.Updates)
}

func TestInsert_EmptyList(t *testing.T) {
	res, err := Insert(nil, InsertionPoint{Position: PositionStart}, storage.ConvertedOperation{OpName: "x"})

	require.NoError(t, err)
	assert.Equal(t, 10, res.NewSequence)
	assert.Empty(t, res.Updates)
}

func TestInsert_UnsortedInput(t *testing.T) {
	in := []storage.ConvertedOperation{
		{ID: 3, Sequence: 30, OpName: "c"},
		{ID: 1, Sequence: 10, OpName: "a"},
		{ID: 2, Sequence: 20, OpName: "b"},
	}

	res, err := Insert(in, InsertionPoint{Position: PositionAfter, AfterID: 1}, storage.ConvertedOperation{OpName: "x"})

	require.NoError(t, err)
	assert.Equal(t, "axbc", names(res.Ops))
	// входной срез не меняется
	assert.Equal(t, 30, in[0].Sequence)
}

func TestInsert_Errors(t *testing.T) {
	_, err := Insert(ops(10), InsertionPoint{Position: PositionAfter, AfterID: 99}, storage.ConvertedOperation{})
	assert.ErrorIs(t, err, ErrAnchorNotFound)

	_, err = Insert(ops(10), InsertionPoint{Position: "middle"}, storage.ConvertedOperation{})
	assert.ErrorIs(t, err, ErrUnknownPosition)
}

func TestInsert_EveryPositionKeepsStrictOrder(t *testing.T) {
	base := ops(10, 20, 30, 40, 50)

	points := []InsertionPoint{{Position: PositionStart}, {Position: PositionEnd}}
	for _, o := range base {
		points = append(points, InsertionPoint{Position: PositionAfter, AfterID: o.ID})
	}

	for _, p := range points {
		res, err := Insert(base, p, storage.ConvertedOperation{ID: 100})
		require.NoError(t, err)
		require.NoError(t, Verify(res.Ops))

		for i, o := range res.Ops {
			assert.Equal(t, (i+1)*Step, o.Sequence)
		}
	}
}

func TestDelete_KeepsGaps(t *testing.T) {
	left, err := Delete(ops(10, 20, 30), 2)

	require.NoError(t, err)
	assert.Equal(t, []int{10, 30}, seqs(left))

	_, err = Delete(ops(10), 7)
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestRenumber_HealsAndIsIdempotent(t *testing.T) {
	broken := []storage.ConvertedOperation{
		{ID: 5, Sequence: 30},
		{ID: 2, Sequence: 30},
		{ID: 9, Sequence: 10},
	}

	list, updates := Renumber(broken)
	assert.Equal(t, []int{10, 20, 30}, seqs(list))
	assert.Equal(t, []int64{9, 2, 5}, []int64{list[0].ID, list[1].ID, list[2].ID})
	assert.NotEmpty(t, updates)

	again, updates := Renumber(list)
	assert.Equal(t, list, again)
	assert.Empty(t, updates)
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Verify(ops(10, 30, 31)))
	assert.ErrorIs(t, Verify(ops(10, 10)), ErrNotOrdered)
	assert.ErrorIs(t, Verify(ops(20, 10)), ErrNotOrdered)
}
