package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/stretchr/testify/suite"

	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/schema"
)

type AlertTestSuite struct {
	suite.Suite
	connString string
	ormDB      *gorm.DB
	store      *SafetyStore
}

func NewAlertTestSuite(connString string) *AlertTestSuite {
	return &AlertTestSuite{
		connString: connString,
	}
}

func (s *AlertTestSuite) SetupSuite() {
	db, err := gorm.Open("postgres", s.connString)
	if err != nil {
		s.T().Fatalf("connect postgres with error: %s", err)
	}

	s.ormDB = db
	if err := db.DropTableIfExists(&schema.EmergencyAlert{}).Error; err != nil {
		s.T().Fatal(err)
	}
	if err := db.AutoMigrate(&schema.EmergencyAlert{}).Error; err != nil {
		s.T().Fatal(err)
	}
}

func (s *AlertTestSuite) SetupTest() {
	s.Require().NoError(s.ormDB.Delete(&schema.EmergencyAlert{}).Error)
	s.store = NewSafetyStore(s.ormDB, nil, s.connString)
}

func (s *AlertTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *AlertTestSuite) TearDownSuite() {
	_ = s.ormDB.DropTableIfExists(&schema.EmergencyAlert{})
	_ = s.ormDB.Close()
}

func (s *AlertTestSuite) newAlert(owner string, createdAt int64) *schema.EmergencyAlert {
	alert := &schema.EmergencyAlert{
		OwnerID:   owner,
		Kind:      schema.AlertMedical,
		Location:  schema.LocationSample{Latitude: 25.03, Longitude: 121.56, AccuracyMeters: 10, CapturedAt: createdAt},
		Address:   "Taipei",
		CreatedAt: createdAt,
		Status:    schema.AlertActive,
	}
	id, err := s.store.CreateAlert(context.Background(), alert)
	s.Require().NoError(err)
	s.Require().NotEmpty(id)
	return alert
}

func (s *AlertTestSuite) TestCreateAndGetAlert() {
	alert := s.newAlert("owner-1", 1000)

	got, err := s.store.GetAlert(context.Background(), alert.ID)
	s.NoError(err)
	s.Equal(alert.OwnerID, got.OwnerID)
	s.Equal(schema.AlertActive, got.Status)
	s.Equal(alert.Location, got.Location)
	s.Empty(got.RespondingVolunteerIDs)
}

func (s *AlertTestSuite) TestGetAlertNotExist() {
	_, err := s.store.GetAlert(context.Background(), uuid.New().String())
	s.True(errors.Is(err, emergency.ErrAlertNotFound))

	_, err = s.store.GetAlert(context.Background(), "not-a-uuid")
	s.True(errors.Is(err, emergency.ErrAlertNotFound))
}

func (s *AlertTestSuite) TestUpdateAlertStatus() {
	alert := s.newAlert("owner-1", 1000)

	s.NoError(s.store.UpdateAlertStatus(context.Background(), alert.ID, schema.AlertActive, schema.AlertResolved, schema.ResolutionFalseAlarm))

	got, err := s.store.GetAlert(context.Background(), alert.ID)
	s.NoError(err)
	s.Equal(schema.AlertResolved, got.Status)
	s.Equal(schema.ResolutionFalseAlarm, got.Resolution)
}

func (s *AlertTestSuite) TestUpdateAlertStatusConflict() {
	alert := s.newAlert("owner-1", 1000)

	err := s.store.UpdateAlertStatus(context.Background(), alert.ID, schema.AlertResponded, schema.AlertResolved, schema.ResolutionResolved)
	s.True(errors.Is(err, emergency.ErrStatusConflict))

	err = s.store.UpdateAlertStatus(context.Background(), uuid.New().String(), schema.AlertActive, schema.AlertResponded, schema.ResolutionNone)
	s.True(errors.Is(err, emergency.ErrAlertNotFound))
}

func (s *AlertTestSuite) TestAddResponder() {
	alert := s.newAlert("owner-1", 1000)

	s.NoError(s.store.AddResponder(context.Background(), alert.ID, "v-1"))
	s.NoError(s.store.AddResponder(context.Background(), alert.ID, "v-2"))
	s.NoError(s.store.AddResponder(context.Background(), alert.ID, "v-1"))

	got, err := s.store.GetAlert(context.Background(), alert.ID)
	s.NoError(err)
	s.Equal([]string{"v-1", "v-2"}, []string(got.RespondingVolunteerIDs))
}

func (s *AlertTestSuite) TestAddResponderToResolvedAlert() {
	alert := s.newAlert("owner-1", 1000)
	s.NoError(s.store.UpdateAlertStatus(context.Background(), alert.ID, schema.AlertActive, schema.AlertResolved, schema.ResolutionFalseAlarm))

	err := s.store.AddResponder(context.Background(), alert.ID, "v-1")
	s.True(errors.Is(err, emergency.ErrStatusConflict))
}

func (s *AlertTestSuite) TestListOwnerAlerts() {
	for i := int64(1); i <= 4; i++ {
		s.newAlert("owner-1", i*1000)
	}
	s.newAlert("owner-2", 9000)

	alerts, err := s.store.ListOwnerAlerts(context.Background(), "owner-1", 3)
	s.NoError(err)
	s.Len(alerts, 3)
	s.Equal(int64(4000), alerts[0].CreatedAt)
	s.Equal(int64(2000), alerts[2].CreatedAt)
}

func (s *AlertTestSuite) TestSubscribeOwnerAlerts() {
	var mu sync.Mutex
	var snapshots [][]schema.EmergencyAlert

	cancel, err := s.store.SubscribeOwnerAlerts(context.Background(), "owner-1", 10, func(alerts []schema.EmergencyAlert) {
		mu.Lock()
		snapshots = append(snapshots, alerts)
		mu.Unlock()
	})
	s.Require().NoError(err)
	defer cancel()

	s.newAlert("owner-1", 1000)
	s.newAlert("owner-2", 2000)

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snapshots) >= 2 && len(snapshots[len(snapshots)-1]) == 1
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	s.Empty(snapshots[0])
	for _, a := range snapshots[len(snapshots)-1] {
		s.Equal("owner-1", a.OwnerID)
	}
	mu.Unlock()
}

func (s *AlertTestSuite) TestSubscribeWithoutListener() {
	st := NewSafetyStore(s.ormDB, nil, "")
	_, err := st.SubscribeOwnerAlerts(context.Background(), "owner-1", 10, func([]schema.EmergencyAlert) {})
	s.Equal(ErrNoListener, err)
}

func TestAlertTestSuite(t *testing.T) {
	conn := os.Getenv("GUARDKNIGHT_TEST_POSTGRES_CONN")
	if conn == "" {
		t.Skip("GUARDKNIGHT_TEST_POSTGRES_CONN is not set")
	}
	suite.Run(t, NewAlertTestSuite(conn))
}
