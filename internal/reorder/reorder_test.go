package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMove_Forward(t *testing.T) {
	assert.Equal(t, []string{"B", "C", "A", "D"}, Move([]string{"A", "B", "C", "D"}, 0, 2))
	assert.Equal(t, []string{"A", "C", "D", "B"}, Move([]string{"A", "B", "C", "D"}, 1, 3))
}

func TestMove_Backward(t *testing.T) {
	assert.Equal(t, []string{"D", "A", "B", "C"}, Move([]string{"A", "B", "C", "D"}, 3, 0))
	assert.Equal(t, []string{"A", "C", "B", "D"}, Move([]string{"A", "B", "C", "D"}, 2, 1))
}

func TestMove_SameIndexIsIdentity(t *testing.T) {
	seq := []string{"A", "B", "C", "D"}
	for i := range seq {
		assert.Equal(t, seq, Move(seq, i, i))
	}
}

func TestMove_DoesNotMutateInput(t *testing.T) {
	seq := []string{"A", "B", "C", "D"}
	out := Move(seq, 0, 3)
	assert.Equal(t, []string{"A", "B", "C", "D"}, seq)
	assert.Equal(t, []string{"B", "C", "D", "A"}, out)

	out[0] = "Z"
	assert.Equal(t, "A", seq[0])
}

func TestMove_SingleElement(t *testing.T) {
	assert.Equal(t, []int{7}, Move([]int{7}, 0, 0))
}

func TestMove_PreservesLengthAndElements(t *testing.T) {
	seq := []int{10, 20, 30, 40, 50}
	for from := range seq {
		for to := range seq {
			out := Move(seq, from, to)
			assert.Len(t, out, len(seq))
			assert.ElementsMatch(t, seq, out)
			assert.Equal(t, seq[from], out[to], "from=%d to=%d", from, to)
		}
	}
}

func TestMove_OthersKeepRelativeOrder(t *testing.T) {
	seq := []string{"A", "B", "C", "D", "E"}
	for from := range seq {
		for to := range seq {
			out := Move(seq, from, to)
			var rest []string
			for _, v := range out {
				if v != seq[from] {
					rest = append(rest, v)
				}
			}
			var want []string
			for i, v := range seq {
				if i != from {
					want = append(want, v)
				}
			}
			assert.Equal(t, want, rest, "from=%d to=%d", from, to)
		}
	}
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(3, 0, 2))
	assert.False(t, InRange(3, 0, 3))
	assert.False(t, InRange(3, -1, 0))
	assert.False(t, InRange(0, 0, 0))
}
