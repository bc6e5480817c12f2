package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/agri-advisor/internal/model"
)

func TestDeduplicateSolutions_DropsOverlapping(t *testing.T) {
	solutions := []model.Solution{
		{Rank: 1, MethodName: "Liming", CoreMechanism: "apply lime to reduce soil acidity"},
		{Rank: 2, MethodName: "Ag lime", CoreMechanism: "apply agricultural lime lower soil pH"},
	}

	// "apply", "lime" and "soil" reach the 3-word overlap.
	unique := DeduplicateSolutions(solutions, 3)
	assert.Len(t, unique, 1)
	assert.Equal(t, "Liming", unique[0].MethodName)
}

func TestDeduplicateSolutions_KeepsDistinct(t *testing.T) {
	solutions := []model.Solution{
		{Rank: 1, CoreMechanism: "apply lime to reduce soil acidity"},
		{Rank: 2, CoreMechanism: "install subsurface drainage tiles"},
		{Rank: 3, CoreMechanism: "rotate with nitrogen fixing legumes"},
	}

	unique := DeduplicateSolutions(solutions, 3)
	assert.Len(t, unique, 3)
}

func TestDeduplicateSolutions_OrderPreservingAndNeverGrows(t *testing.T) {
	solutions := []model.Solution{
		{Rank: 1, CoreMechanism: "one two three four five"},
		{Rank: 2, CoreMechanism: "alpha beta gamma delta"},
		{Rank: 3, CoreMechanism: "one two three four six"}, // dup of first
		{Rank: 4, CoreMechanism: "red green blue yellow"},
	}

	unique := DeduplicateSolutions(solutions, 3)
	assert.LessOrEqual(t, len(unique), len(solutions))
	assert.Equal(t, []int{1, 2, 4}, []int{unique[0].Rank, unique[1].Rank, unique[2].Rank})
}

func TestDeduplicateSolutions_Empty(t *testing.T) {
	assert.Empty(t, DeduplicateSolutions(nil, 3))
}
