package volunteer

import (
	"context"
	"io/ioutil"
	"sync"

	"github.com/dhconnelly/rtreego"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/guardknight/guardknight-api/schema"
)

const (
	treeDimensions = 2
	treeMinBranch  = 25
	treeMaxBranch  = 50
	pointTolerance = 1e-9
)

type indexedVolunteer struct {
	volunteer schema.Volunteer
	bounds    rtreego.Rect
}

func (i *indexedVolunteer) Bounds() rtreego.Rect {
	return i.bounds
}

func newIndexedVolunteer(v schema.Volunteer) *indexedVolunteer {
	return &indexedVolunteer{
		volunteer: v,
		bounds:    rtreego.Point{v.Location.Latitude, v.Location.Longitude}.ToRect(pointTolerance),
	}
}

// IndexedDirectory keeps a volunteer roster in an in-memory R-tree.
type IndexedDirectory struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	byID map[string]*indexedVolunteer
}

func NewIndexedDirectory(volunteers ...schema.Volunteer) *IndexedDirectory {
	d := &IndexedDirectory{
		tree: rtreego.NewTree(treeDimensions, treeMinBranch, treeMaxBranch),
		byID: make(map[string]*indexedVolunteer),
	}
	for _, v := range volunteers {
		d.Upsert(v)
	}
	return d
}

// Upsert adds a volunteer or replaces the entry with the same ID.
func (d *IndexedDirectory) Upsert(v schema.Volunteer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.byID[v.ID]; ok {
		d.tree.Delete(old)
	}

	entry := newIndexedVolunteer(v)
	d.tree.Insert(entry)
	d.byID[v.ID] = entry
}

func (d *IndexedDirectory) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.byID[id]; ok {
		d.tree.Delete(old)
		delete(d.byID, id)
	}
}

func (d *IndexedDirectory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Size()
}

func (d *IndexedDirectory) VolunteersWithin(ctx context.Context, box schema.BoundingBox) ([]schema.Volunteer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bb, err := rtreego.NewRectFromPoints(
		rtreego.Point{box.MinLatitude, box.MinLongitude},
		rtreego.Point{box.MaxLatitude, box.MaxLongitude},
	)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	results := d.tree.SearchIntersect(bb)
	d.mu.RUnlock()

	volunteers := make([]schema.Volunteer, 0, len(results))
	for _, r := range results {
		v := r.(*indexedVolunteer).volunteer
		v.Skills = append([]string(nil), v.Skills...)
		volunteers = append(volunteers, v)
	}

	return volunteers, nil
}

type roster struct {
	Volunteers []schema.Volunteer `yaml:"volunteers"`
}

// LoadRoster reads a yaml volunteer roster file.
func LoadRoster(path string) ([]schema.Volunteer, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	for i := range r.Volunteers {
		if r.Volunteers[i].Availability == "" {
			r.Volunteers[i].Availability = schema.VolunteerAvailable
		}
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"path":   path,
		"count":  len(r.Volunteers),
	}).Info("volunteer roster loaded")

	return r.Volunteers, nil
}
