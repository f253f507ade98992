package weather

import (
	"github.com/weathercard/weathercard/internal/sun"
)

// Category is the condition bucket a CWA weather code falls into.
type Category string

const (
	CategoryThunderstorm           Category = "thunderstorm"
	CategoryClear                  Category = "clear"
	CategoryCloudyFog              Category = "cloudy-fog"
	CategoryCloudy                 Category = "cloudy"
	CategoryFog                    Category = "fog"
	CategoryPartiallyClearWithRain Category = "partially-clear-with-rain"
	CategorySnowing                Category = "snowing"
)

// categoryCodes partitions the Wx codes 1-42.
var categoryCodes = []struct {
	category Category
	codes    []int
}{
	{CategoryThunderstorm, []int{15, 16, 17, 18, 21, 22, 33, 34, 35, 36, 41}},
	{CategoryClear, []int{1}},
	{CategoryCloudyFog, []int{25, 26, 27, 28}},
	{CategoryCloudy, []int{2, 3, 4, 5, 6, 7}},
	{CategoryFog, []int{24}},
	{CategoryPartiallyClearWithRain, []int{8, 9, 10, 11, 12, 13, 14, 19, 20, 29, 30, 31, 32, 38, 39}},
	{CategorySnowing, []int{23, 37, 42}},
}

var codeToCategory = func() map[int]Category {
	m := make(map[int]Category)
	for _, cc := range categoryCodes {
		for _, code := range cc.codes {
			m[code] = cc.category
		}
	}
	return m
}()

// Classify maps a weather code to its category. Unlisted codes report false
// and should render without an icon.
func Classify(code int) (Category, bool) {
	c, ok := codeToCategory[code]
	return c, ok
}

// Categories returns the seven categories in table order.
func Categories() []Category {
	out := make([]Category, len(categoryCodes))
	for i, cc := range categoryCodes {
		out[i] = cc.category
	}
	return out
}

// CodesFor returns the weather codes of a category.
func CodesFor(c Category) []int {
	for _, cc := range categoryCodes {
		if cc.category == c {
			out := make([]int, len(cc.codes))
			copy(out, cc.codes)
			return out
		}
	}
	return nil
}

// Asset identifies one of the 14 condition icons, e.g. "night-clear".
type Asset string

// SelectAsset picks the icon for a category at a moment. An empty category or
// moment yields no asset.
func SelectAsset(c Category, m sun.Moment) Asset {
	if c == "" {
		return ""
	}
	if _, ok := indexOf(c); !ok {
		return ""
	}
	switch m {
	case sun.MomentDay, sun.MomentNight:
		return Asset(string(m) + "-" + string(c))
	default:
		return ""
	}
}

func indexOf(c Category) (int, bool) {
	for i, cc := range categoryCodes {
		if cc.category == c {
			return i, true
		}
	}
	return 0, false
}
