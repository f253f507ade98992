package handler

import (
	"net/http"

	"github.com/weathercard/weathercard/internal/api/models"
	"github.com/weathercard/weathercard/internal/api/response"
	"github.com/weathercard/weathercard/internal/location"
)

// RegionsHandler lists the selectable regions.
type RegionsHandler struct {
	defaultRegion string
}

// NewRegionsHandler creates a new RegionsHandler.
func NewRegionsHandler(defaultRegion string) *RegionsHandler {
	if defaultRegion == "" {
		defaultRegion = location.DefaultRegionName
	}
	return &RegionsHandler{defaultRegion: defaultRegion}
}

// ListRegions handles GET /v1/regions.
func (h *RegionsHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions := location.All()
	list := models.RegionList{
		Default: h.defaultRegion,
		Items:   make([]models.Region, 0, len(regions)),
	}
	for _, region := range regions {
		list.Items = append(list.Items, models.Region{
			Name:        region.Name,
			StationName: region.StationName,
		})
	}
	response.JSON(w, r, http.StatusOK, list)
}
