package pagelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct{ Serial, Name string }

var rowFields = []func(row) string{
	func(r row) string { return r.Serial },
	func(r row) string { return r.Name },
}

func TestFilter(t *testing.T) {
	items := []row{
		{"SN100", "ChairModelX"},
		{"SN200", "ChairModelY"},
		{"XB300", "Bariatric"},
	}

	t.Run("empty query keeps everything", func(t *testing.T) {
		assert.Equal(t, items, Filter(items, "", rowFields))
		assert.Equal(t, items, Filter(items, "   ", rowFields))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got := Filter(items, "chairmodel", rowFields)
		assert.Len(t, got, 2)

		got = Filter(items, "SN1", rowFields)
		assert.Equal(t, []row{{"SN100", "ChairModelX"}}, got)
	})

	t.Run("any field matches", func(t *testing.T) {
		got := Filter(items, "bariatric", rowFields)
		assert.Equal(t, []row{{"XB300", "Bariatric"}}, got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Filter(items, "zzz", rowFields))
	})
}

func TestClamp(t *testing.T) {
	page, size := Clamp(0, 20)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = Clamp(-3, 37)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = Clamp(7, 100)
	assert.Equal(t, 7, page)
	assert.Equal(t, 100, size)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 5, TotalPages(41, 10))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Page(items, 1, 3))
	assert.Equal(t, []int{4, 5, 6}, Page(items, 2, 3))
	assert.Equal(t, []int{7}, Page(items, 3, 3))
	assert.Nil(t, Page(items, 4, 3))
}

func TestPageNumbers(t *testing.T) {
	t.Run("small totals list every page", func(t *testing.T) {
		assert.Equal(t, []int{1}, PageNumbers(1, 1))
		assert.Equal(t, []int{1, 2, 3, 4, 5}, PageNumbers(3, 5))
	})

	t.Run("middle collapses both sides", func(t *testing.T) {
		assert.Equal(t, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}, PageNumbers(5, 10))
	})

	t.Run("edges collapse one side", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, Ellipsis, 10}, PageNumbers(1, 10))
		assert.Equal(t, []int{1, Ellipsis, 9, 10}, PageNumbers(10, 10))
	})

	t.Run("out of range current is clamped", func(t *testing.T) {
		assert.Equal(t, PageNumbers(1, 10), PageNumbers(0, 10))
		assert.Equal(t, PageNumbers(10, 10), PageNumbers(99, 10))
	})

	// 按钮条的硬上限:显式页码 ≤5,省略号 ≤2,首末页总在,当前页总在
	t.Run("bounded for every current and total", func(t *testing.T) {
		for total := 1; total <= 30; total++ {
			for current := 1; current <= total; current++ {
				nums := PageNumbers(current, total)

				explicit, dots := 0, 0
				hasCurrent := false
				for _, n := range nums {
					if n == Ellipsis {
						dots++
						continue
					}
					explicit++
					if n == current {
						hasCurrent = true
					}
				}
				assert.LessOrEqual(t, explicit, 5, "total=%d current=%d", total, current)
				assert.LessOrEqual(t, dots, 2, "total=%d current=%d", total, current)
				assert.True(t, hasCurrent, "total=%d current=%d", total, current)
				assert.Equal(t, 1, nums[0], "total=%d current=%d", total, current)
				assert.Equal(t, total, nums[len(nums)-1], "total=%d current=%d", total, current)
			}
		}
	})
}
