package volunteer_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/volunteer"
)

func TestIndexedDirectoryUpsertAndRemove(t *testing.T) {
	d := volunteer.NewIndexedDirectory(
		schema.Volunteer{ID: "a", Location: schema.LocationSample{Latitude: 1, Longitude: 1}},
		schema.Volunteer{ID: "b", Location: schema.LocationSample{Latitude: 5, Longitude: 5}},
	)
	assert.Equal(t, 2, d.Size())

	box := schema.BoundingBox{MinLatitude: 0, MinLongitude: 0, MaxLatitude: 2, MaxLongitude: 2}
	found, err := d.VolunteersWithin(context.Background(), box)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(found))

	d.Upsert(schema.Volunteer{ID: "b", Location: schema.LocationSample{Latitude: 1.5, Longitude: 1.5}})
	assert.Equal(t, 2, d.Size())

	found, _ = d.VolunteersWithin(context.Background(), box)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(found))

	d.Remove("a")
	d.Remove("a")
	found, _ = d.VolunteersWithin(context.Background(), box)
	assert.Equal(t, []string{"b"}, ids(found))
}

func TestLoadRoster(t *testing.T) {
	dir, err := ioutil.TempDir("", "roster")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "roster.yaml")
	content := `volunteers:
  - id: v-1
    name: Mei Lin
    location:
      latitude: 25.034
      longitude: 121.565
    skills: [cpr, first aid]
    rating: 4.8
    language: zh_tw
  - id: v-2
    name: Tom
    location:
      latitude: 25.04
      longitude: 121.57
    status: busy
    rating: 4.1
`
	assert.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	volunteers, err := volunteer.LoadRoster(path)
	assert.NoError(t, err)
	assert.Len(t, volunteers, 2)
	assert.Equal(t, "Mei Lin", volunteers[0].Name)
	assert.Equal(t, 25.034, volunteers[0].Location.Latitude)
	assert.Equal(t, []string{"cpr", "first aid"}, volunteers[0].Skills)
	assert.Equal(t, schema.VolunteerAvailable, volunteers[0].Availability)
	assert.Equal(t, schema.VolunteerBusy, volunteers[1].Availability)

	_, err = volunteer.LoadRoster(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
