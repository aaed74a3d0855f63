package volunteer

import (
	"context"
	"math"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

const logPrefix = "volunteer"

// Directory is a read-only view of registered volunteers.
type Directory interface {
	VolunteersWithin(ctx context.Context, box schema.BoundingBox) ([]schema.Volunteer, error)
}

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// FindNearby returns the volunteers within radiusKm of location ordered by
// distance, then rating, then how many of requiredSkills they have. The
// returned slice is owned by the caller.
func (m *Matcher) FindNearby(ctx context.Context, location schema.LocationSample, radiusKm float64, directory Directory, requiredSkills ...string) ([]schema.Volunteer, error) {
	if radiusKm <= 0 || directory == nil {
		return []schema.Volunteer{}, nil
	}

	candidates, err := directory.VolunteersWithin(ctx, BoundingBoxAround(location, radiusKm))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("query volunteer directory")
		return nil, err
	}

	wanted := normalizeSkills(requiredSkills)

	type ranked struct {
		volunteer schema.Volunteer
		overlap   int
	}

	matches := make([]ranked, 0, len(candidates))
	for _, v := range candidates {
		d := geo.DistanceKm(location, v.Location)
		if d > radiusKm {
			continue
		}
		v.DistanceKm = d
		v.Skills = append([]string(nil), v.Skills...)
		matches = append(matches, ranked{v, skillOverlap(v.Skills, wanted)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.volunteer.DistanceKm != b.volunteer.DistanceKm {
			return a.volunteer.DistanceKm < b.volunteer.DistanceKm
		}
		if a.volunteer.Rating != b.volunteer.Rating {
			return a.volunteer.Rating > b.volunteer.Rating
		}
		return a.overlap > b.overlap
	})

	result := make([]schema.Volunteer, len(matches))
	for i, r := range matches {
		result[i] = r.volunteer
	}

	return result, nil
}

func normalizeSkills(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

func skillOverlap(skills []string, wanted map[string]struct{}) int {
	if len(wanted) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(skills))
	n := 0
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := wanted[s]; ok {
			n++
		}
	}
	return n
}

// BoundingBoxAround returns a box that contains every point within radiusKm
// of center on the sphere. Near the poles the box spans all longitudes.
func BoundingBoxAround(center schema.LocationSample, radiusKm float64) schema.BoundingBox {
	angular := radiusKm / geo.EarthRadiusKm
	dLat := angular * 180 / math.Pi

	minLat := center.Latitude - dLat
	maxLat := center.Latitude + dLat

	if minLat <= -90 || maxLat >= 90 {
		return schema.BoundingBox{
			MinLatitude:  math.Max(minLat, -90),
			MinLongitude: -180,
			MaxLatitude:  math.Min(maxLat, 90),
			MaxLongitude: 180,
		}
	}

	cosLat := math.Cos(center.Latitude * math.Pi / 180)
	sinAngular := math.Sin(angular)
	if sinAngular >= cosLat {
		return schema.BoundingBox{
			MinLatitude:  minLat,
			MinLongitude: -180,
			MaxLatitude:  maxLat,
			MaxLongitude: 180,
		}
	}

	dLng := math.Asin(sinAngular/cosLat) * 180 / math.Pi
	minLng := center.Longitude - dLng
	maxLng := center.Longitude + dLng

	// a box crossing the antimeridian is widened to all longitudes
	if minLng < -180 || maxLng > 180 {
		minLng, maxLng = -180, 180
	}

	const pad = 1e-9
	return schema.BoundingBox{
		MinLatitude:  minLat - pad,
		MinLongitude: minLng - pad,
		MaxLatitude:  maxLat + pad,
		MaxLongitude: maxLng + pad,
	}
}
