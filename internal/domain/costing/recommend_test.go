package costing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"damage-estimator/internal/domain/entity"
)

func TestRecommend(t *testing.T) {
	decision, savings := Recommend(5000, 20000)
	require.Equal(t, entity.RecommendRepair, decision)
	require.Equal(t, int64(15000), savings)

	decision, savings = Recommend(15000, 20000)
	require.Equal(t, entity.RecommendReplace, decision)
	require.Zero(t, savings)

	// ровно 70% уже замена
	decision, savings = Recommend(14000, 20000)
	require.Equal(t, entity.RecommendReplace, decision)
	require.Zero(t, savings)

	decision, _ = Recommend(0, 0)
	require.Equal(t, entity.RecommendReplace, decision)
}

func TestRecommend_Law(t *testing.T) {
	for repair := int64(0); repair <= 30000; repair += 700 {
		for replacement := int64(0); replacement <= 30000; replacement += 900 {
			decision, savings := Recommend(repair, replacement)
			if float64(repair) < 0.7*float64(replacement) {
				require.Equal(t, entity.RecommendRepair, decision)
				require.Equal(t, replacement-repair, savings)
			} else {
				require.Equal(t, entity.RecommendReplace, decision)
				require.Zero(t, savings)
			}
		}
	}
}

func TestAggregate(t *testing.T) {
	damages := []entity.CostedDamage{
		{RepairCost: 15000, ReplacementCost: 20000, Recommendation: entity.RecommendReplace},
		{RepairCost: 5000, ReplacementCost: 6000, Recommendation: entity.RecommendReplace},
	}

	totals := Aggregate(damages)
	require.Equal(t, int64(20000), totals.RepairCost)
	require.Equal(t, int64(26000), totals.ReplacementCost)
	// каждое повреждение на замену, но в сумме ремонт дешевле: пороги разные
	require.Equal(t, entity.RecommendRepair, totals.Recommendation)
	require.Equal(t, int64(6000), totals.Savings)
}

func TestAggregate_EqualTotalsIsReplace(t *testing.T) {
	totals := Aggregate([]entity.CostedDamage{{RepairCost: 1000, ReplacementCost: 1000}})
	require.Equal(t, entity.RecommendReplace, totals.Recommendation)
	require.Zero(t, totals.Savings)
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(nil)
	require.Zero(t, totals.RepairCost)
	require.Zero(t, totals.ReplacementCost)
	require.Zero(t, totals.Savings)
	require.Equal(t, entity.RecommendReplace, totals.Recommendation)
}
