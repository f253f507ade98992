// Package location holds the static directory of selectable regions.
package location

// DefaultRegionName is used when no preferred region has been saved.
const DefaultRegionName = "臺北市"

// Region is a first-level administrative division the user can select.
type Region struct {
	// Name is the region name used for forecast queries, e.g. "臺北市".
	Name string

	// StationName is the observation station used for current conditions.
	StationName string

	// SunriseRegionName keys the sunrise/sunset table. It currently equals Name
	// but the provider may diverge the two.
	SunriseRegionName string
}

// regions is the directory in display order.
var regions = []Region{
	{Name: "宜蘭縣", StationName: "宜蘭", SunriseRegionName: "宜蘭縣"},
	{Name: "嘉義市", StationName: "嘉義", SunriseRegionName: "嘉義市"},
	{Name: "屏東縣", StationName: "恆春", SunriseRegionName: "屏東縣"},
	{Name: "苗栗縣", StationName: "三義", SunriseRegionName: "苗栗縣"},
	{Name: "雲林縣", StationName: "國一N234K", SunriseRegionName: "雲林縣"},
	{Name: "臺東縣", StationName: "臺東", SunriseRegionName: "臺東縣"},
	{Name: "臺北市", StationName: "臺北", SunriseRegionName: "臺北市"},
	{Name: "金門縣", StationName: "金門", SunriseRegionName: "金門縣"},
	{Name: "桃園市", StationName: "新屋", SunriseRegionName: "桃園市"},
	{Name: "彰化縣", StationName: "彰師大", SunriseRegionName: "彰化縣"},
	{Name: "嘉義縣", StationName: "布袋國中", SunriseRegionName: "嘉義縣"},
	{Name: "高雄市", StationName: "高雄", SunriseRegionName: "高雄市"},
	{Name: "基隆市", StationName: "基隆", SunriseRegionName: "基隆市"},
	{Name: "臺南市", StationName: "臺南", SunriseRegionName: "臺南市"},
	{Name: "南投縣", StationName: "國三N223K", SunriseRegionName: "南投縣"},
	{Name: "臺中市", StationName: "臺中", SunriseRegionName: "臺中市"},
	{Name: "新竹縣", StationName: "新竹", SunriseRegionName: "新竹縣"},
	{Name: "花蓮縣", StationName: "花蓮", SunriseRegionName: "花蓮縣"},
	{Name: "連江縣", StationName: "馬祖", SunriseRegionName: "連江縣"},
	{Name: "澎湖縣", StationName: "澎湖", SunriseRegionName: "澎湖縣"},
	{Name: "新北市", StationName: "新北", SunriseRegionName: "新北市"},
}

var byName = func() map[string]Region {
	m := make(map[string]Region, len(regions))
	for _, r := range regions {
		m[r.Name] = r
	}
	return m
}()

// FindRegion returns the region with exactly the given name.
// A miss is an ordinary outcome; callers choose their own fallback.
func FindRegion(name string) (Region, bool) {
	r, ok := byName[name]
	return r, ok
}

// All returns a copy of the directory in display order.
func All() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// Names returns the region names in display order.
func Names() []string {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
	}
	return names
}
