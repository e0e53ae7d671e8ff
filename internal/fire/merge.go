package fire

import "github.com/bobby-s-dev/life-dashboard/internal/models"

// Merge joins ban status and danger forecasts on exact district name.
// Districts missing from ban default to no ban; districts missing from
// danger get a nil forecast.
func Merge(ban map[string]bool, danger map[string][]models.DangerDay) models.FireDataSnapshot {
	snapshot := make(models.FireDataSnapshot, len(ban)+len(danger))

	for district, days := range danger {
		snapshot[district] = models.DistrictFireStatus{
			TotalFireBan: ban[district],
			FireDanger:   days,
		}
	}
	for district, tfb := range ban {
		if _, ok := danger[district]; ok {
			continue
		}
		snapshot[district] = models.DistrictFireStatus{TotalFireBan: tfb}
	}

	return snapshot
}
