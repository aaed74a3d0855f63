package background_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/background"
	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/mocks"
	"github.com/guardknight/guardknight-api/schema"
)

func TestTaskDispatcherEnqueues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alert := schema.EmergencyAlert{ID: "a-1", OwnerID: "u-1", Kind: schema.AlertFire, Status: schema.AlertActive}

	sender := mocks.NewMockTaskSender(ctrl)
	sender.EXPECT().SendTask(gomock.Any()).DoAndReturn(func(s *tasks.Signature) (interface{}, error) {
		assert.Equal(t, background.BroadcastEmergencyAlertTask, s.Name)
		assert.Len(t, s.Args, 1)

		var decoded schema.EmergencyAlert
		assert.NoError(t, json.Unmarshal([]byte(s.Args[0].Value.(string)), &decoded))
		assert.Equal(t, alert.ID, decoded.ID)
		assert.Equal(t, alert.Kind, decoded.Kind)
		return nil, nil
	})

	fallbackCalled := false
	d := background.NewTaskDispatcher(sender, emergency.DispatcherFunc(func(schema.EmergencyAlert) {
		fallbackCalled = true
	}))
	d.Dispatch(alert)
	d.Wait()

	assert.False(t, fallbackCalled)
}

func TestTaskDispatcherFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mocks.NewMockTaskSender(ctrl)
	sender.EXPECT().SendTask(gomock.Any()).Return(nil, errors.New("redis down"))

	var dispatched []string
	d := background.NewTaskDispatcher(sender, emergency.DispatcherFunc(func(a schema.EmergencyAlert) {
		dispatched = append(dispatched, a.ID)
	}))
	d.Dispatch(schema.EmergencyAlert{ID: "a-2"})
	d.Wait()

	assert.Equal(t, []string{"a-2"}, dispatched)
}

func TestTaskDispatcherDoesNotBlockOnSlowBroker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	sender := mocks.NewMockTaskSender(ctrl)
	sender.EXPECT().SendTask(gomock.Any()).DoAndReturn(func(*tasks.Signature) (interface{}, error) {
		<-release
		return nil, nil
	}).Times(1)

	d := background.NewTaskDispatcher(sender, nil)

	returned := make(chan struct{})
	go func() {
		d.Dispatch(schema.EmergencyAlert{ID: "a-3"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("dispatch waited for the broker")
	}

	close(release)
	d.Wait()
}
