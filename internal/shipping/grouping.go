package shipping

import "math"

// resolvedLine is a cart line bound to its fulfilling store.
type resolvedLine struct {
	Store    StoreRecord
	Product  ProductRecord
	Quantity int
}

// groupByStore folds resolved lines into one group per store. Groups are
// returned in order of first appearance. Dimensions are maximized per axis
// rather than summed, so a group is priced as a single bounding box sized by
// its largest item on each axis.
func groupByStore(lines []resolvedLine) []StoreGroup {
	index := make(map[string]int, len(lines))
	groups := make([]StoreGroup, 0, len(lines))

	for _, line := range lines {
		pos, ok := index[line.Store.ID]
		if !ok {
			pos = len(groups)
			index[line.Store.ID] = pos
			groups = append(groups, StoreGroup{
				StoreID:     line.Store.ID,
				StoreName:   line.Store.Name,
				OriginZip:   line.Store.PostalCode,
				OriginCity:  line.Store.City,
				OriginState: line.Store.State,
			})
		}

		group := &groups[pos]
		unitWeight := line.Product.UnitWeightKg()
		width, height, depth := line.Product.Dimensions()

		group.TotalWeight += unitWeight * float64(line.Quantity)
		group.MaxWidthCm = math.Max(group.MaxWidthCm, width)
		group.MaxHeightCm = math.Max(group.MaxHeightCm, height)
		group.MaxDepthCm = math.Max(group.MaxDepthCm, depth)
		group.Items = append(group.Items, GroupItem{
			ProductID:    line.Product.ID,
			Quantity:     line.Quantity,
			UnitWeightKg: unitWeight,
		})
	}
	return groups
}
