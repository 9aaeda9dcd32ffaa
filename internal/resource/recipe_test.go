/*
Package resource
File: recipe_test.go
Description: Verifies the recipe table, its symmetry, and the derived
requirement/build-order helpers.
*/

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineKnownRecipes(t *testing.T) {
	cases := []struct {
		a, b    Kind
		product Kind
	}{
		{Hydrogen, Oxygen, Water},
		{Carbon, Carbon, Diamond},
		{Water, Carbon, Life},
		{Silicon, Life, Robot},
		{Water, Life, Dolphin},
		{Robot, Diamond, AIPartner},
	}
	for _, tc := range cases {
		t.Run(tc.product.String(), func(t *testing.T) {
			got, ok := Combine(tc.a, tc.b)
			require.True(t, ok, "recipe %v+%v should exist", tc.a, tc.b)
			assert.Equal(t, tc.product, got)

			// Order of inputs never matters.
			swapped, ok := Combine(tc.b, tc.a)
			require.True(t, ok)
			assert.Equal(t, tc.product, swapped)
		})
	}
}

func TestCombineUnknownPairsFail(t *testing.T) {
	bad := [][2]Kind{
		{Hydrogen, Hydrogen},
		{Hydrogen, Carbon},
		{Oxygen, Silicon},
		{Water, Water},
		{Diamond, Dolphin},
		{AIPartner, Hydrogen},
	}
	for _, pair := range bad {
		_, ok := Combine(pair[0], pair[1])
		assert.False(t, ok, "%v+%v must not combine", pair[0], pair[1])
	}
}

func TestIngredientsInvertCombine(t *testing.T) {
	for _, product := range ComplexKinds() {
		a, b, ok := Ingredients(product)
		require.True(t, ok, "every complex kind has a recipe")
		got, ok := Combine(a, b)
		require.True(t, ok)
		assert.Equal(t, product, got)
	}

	_, _, ok := Ingredients(Hydrogen)
	assert.False(t, ok, "base kinds have no recipe")
}

func TestBaseRequirements(t *testing.T) {
	cases := []struct {
		kind Kind
		want map[Kind]int
	}{
		{Hydrogen, map[Kind]int{Hydrogen: 1}},
		{Water, map[Kind]int{Hydrogen: 1, Oxygen: 1}},
		{Diamond, map[Kind]int{Carbon: 2}},
		{Life, map[Kind]int{Hydrogen: 1, Oxygen: 1, Carbon: 1}},
		{Robot, map[Kind]int{Hydrogen: 1, Oxygen: 1, Carbon: 1, Silicon: 1}},
		{Dolphin, map[Kind]int{Hydrogen: 2, Oxygen: 2, Carbon: 1}},
		{AIPartner, map[Kind]int{Hydrogen: 1, Oxygen: 1, Carbon: 3, Silicon: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, BaseRequirements(tc.kind))
		})
	}
}

// TestBuildOrderIsExecutable walks each plan with a virtual bag: steps may
// only consume what earlier steps produced (plus base units assumed on
// hand), and the final step must yield the requested kind.
func TestBuildOrderIsExecutable(t *testing.T) {
	for _, target := range ComplexKinds() {
		t.Run(target.String(), func(t *testing.T) {
			steps := BuildOrder(target)
			require.NotEmpty(t, steps)

			bag := BaseRequirements(target)
			for _, step := range steps {
				require.Greater(t, bag[step.A], 0, "step consumes %v it does not have", step.A)
				bag[step.A]--
				require.Greater(t, bag[step.B], 0, "step consumes %v it does not have", step.B)
				bag[step.B]--

				product, ok := Combine(step.A, step.B)
				require.True(t, ok)
				require.Equal(t, step.Product, product)
				bag[product]++
			}
			assert.Equal(t, 1, bag[target], "plan must end holding the target")
		})
	}
}

func TestBuildOrderBaseKindsEmpty(t *testing.T) {
	for _, base := range BaseKinds() {
		assert.Empty(t, BuildOrder(base))
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range AllKinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("unobtainium")
	assert.Error(t, err)
}
