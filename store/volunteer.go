package store

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guardknight/guardknight-api/schema"
)

// boxPadding widens directory queries so geodesic polygon edges never cut
// off points that lie on the box border.
const boxPadding = 0.001

var ErrVolunteerNotExist = fmt.Errorf("volunteer not exist")

// volunteerRecord is the mongo document of a volunteer. Location is stored as
// a GeoJSON point for the 2dsphere index.
type volunteerRecord struct {
	ID           string              `bson:"id"`
	Name         string              `bson:"name"`
	Location     schema.GeoJSON      `bson:"location"`
	Accuracy     float64             `bson:"accuracy"`
	LocatedAt    int64               `bson:"located_at"`
	Availability schema.Availability `bson:"status"`
	Skills       []string            `bson:"skills"`
	Rating       float64             `bson:"rating"`
	Language     string              `bson:"language"`
}

func newVolunteerRecord(v schema.Volunteer) volunteerRecord {
	return volunteerRecord{
		ID:   v.ID,
		Name: v.Name,
		Location: schema.GeoJSON{
			Type:        "Point",
			Coordinates: []float64{v.Location.Longitude, v.Location.Latitude},
		},
		Accuracy:     v.Location.AccuracyMeters,
		LocatedAt:    v.Location.CapturedAt,
		Availability: v.Availability,
		Skills:       v.Skills,
		Rating:       v.Rating,
		Language:     v.Language,
	}
}

func (r volunteerRecord) volunteer() schema.Volunteer {
	v := schema.Volunteer{
		ID:           r.ID,
		Name:         r.Name,
		Availability: r.Availability,
		Skills:       r.Skills,
		Rating:       r.Rating,
		Language:     r.Language,
	}
	if len(r.Location.Coordinates) == 2 {
		v.Location = schema.LocationSample{
			Latitude:       r.Location.Coordinates[1],
			Longitude:      r.Location.Coordinates[0],
			AccuracyMeters: r.Accuracy,
			CapturedAt:     r.LocatedAt,
		}
	}
	return v
}

func boxFilter(box schema.BoundingBox) bson.M {
	minLat := box.MinLatitude - boxPadding
	maxLat := box.MaxLatitude + boxPadding
	minLng := box.MinLongitude - boxPadding
	maxLng := box.MaxLongitude + boxPadding

	// a polygon cannot express a box spanning half the globe or more
	if maxLng-minLng >= 180 {
		return bson.M{
			"location.coordinates.1": bson.M{
				"$gte": minLat,
				"$lte": maxLat,
			},
		}
	}

	return bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$geometry": bson.M{
					"type": "Polygon",
					"coordinates": [][][]float64{{
						{minLng, minLat},
						{maxLng, minLat},
						{maxLng, maxLat},
						{minLng, maxLat},
						{minLng, minLat},
					}},
				},
			},
		},
	}
}

// VolunteersWithin returns the volunteers located inside box.
func (m *mongoDB) VolunteersWithin(ctx context.Context, box schema.BoundingBox) ([]schema.Volunteer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.VolunteerCollection)
	cur, err := c.Find(ctx, boxFilter(box))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"error":  err,
		}).Error("query volunteers within box")
		return nil, err
	}
	defer cur.Close(ctx)

	volunteers := make([]schema.Volunteer, 0)
	for cur.Next(ctx) {
		var r volunteerRecord
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		volunteers = append(volunteers, r.volunteer())
	}

	return volunteers, cur.Err()
}

// UpsertVolunteers replaces volunteers by id, inserting new ones.
func (m *mongoDB) UpsertVolunteers(ctx context.Context, volunteers []schema.Volunteer) (int64, error) {
	if len(volunteers) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(volunteers))
	for _, v := range volunteers {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": v.ID}).
			SetReplacement(newVolunteerRecord(v)).
			SetUpsert(true))
	}

	c := m.client.Database(m.database).Collection(schema.VolunteerCollection)
	result, err := c.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"prefix":   mongoLogPrefix,
		"upserted": result.UpsertedCount,
		"modified": result.ModifiedCount,
	}).Info("volunteers upserted")

	return result.UpsertedCount + result.ModifiedCount, nil
}

func (m *mongoDB) SetVolunteerAvailability(ctx context.Context, id string, availability schema.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.VolunteerCollection)
	result, err := c.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": availability}})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrVolunteerNotExist
	}

	return nil
}
