// Package pagelist 是轮椅列表和流水列表共用的内存检索/分页引擎。
// 数据量小,全量过滤即可,不做索引。
package pagelist

import "strings"

// PageSizes 每页大小只有这几档
var PageSizes = []int{10, 20, 50, 100}

const DefaultPageSize = 20

// Ellipsis 在 PageNumbers 的结果里表示折叠的一段页码
const Ellipsis = 0

func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Clamp 把页码和每页大小收敛到合法值
func Clamp(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if !ValidPageSize(size) {
		size = DefaultPageSize
	}
	return page, size
}

// Filter 保留任一字段包含 query 的记录,大小写不敏感。
// 空查询(含纯空白)等于不过滤。
func Filter[T any](items []T, query string, fields []func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(it)), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// TotalPages = max(1, ceil(count/size));列表为空也显示一页
func TotalPages(count, size int) int {
	n := (count + size - 1) / size
	if n < 1 {
		n = 1
	}
	return n
}

// Page 取第 page 页(1 起)的窗口 [(page-1)*size, page*size)
func Page[T any](items []T, page, size int) []T {
	lo := (page - 1) * size
	if lo >= len(items) {
		return nil
	}
	hi := lo + size
	if hi > len(items) {
		hi = len(items)
	}
	return items[lo:hi]
}

// PageNumbers 生成要渲染的页码按钮:首页、当前页前后至多三页、末页,
// 中间折叠的部分用 Ellipsis 占位。总页数不超过 5 时全部列出,
// 这样显式页码最多 5 个、省略号最多 2 个,不会渲染无限长的按钮条。
func PageNumbers(current, total int) []int {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= 5 {
		nums := make([]int, 0, total)
		for p := 1; p <= total; p++ {
			nums = append(nums, p)
		}
		return nums
	}

	nums := []int{1}
	lo, hi := current-1, current+1
	if lo < 2 {
		lo = 2
	}
	if hi > total-1 {
		hi = total - 1
	}
	if lo > 2 {
		nums = append(nums, Ellipsis)
	}
	for p := lo; p <= hi; p++ {
		nums = append(nums, p)
	}
	if hi < total-1 {
		nums = append(nums, Ellipsis)
	}
	return append(nums, total)
}
