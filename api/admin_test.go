package api

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/schema"
)

func TestAdminRebroadcastAlert(t *testing.T) {
	viper.Set("server.apikey.admin", "admin-key")
	defer viper.Set("server.apikey.admin", "")

	e := newTestEnv(t, nil)
	defer e.finish()

	e.store.EXPECT().GetAlert(gomock.Any(), "a1").Return(&schema.EmergencyAlert{ID: "a1", Status: schema.AlertActive}, nil).Times(1)
	e.store.EXPECT().GetAlert(gomock.Any(), "a2").Return(&schema.EmergencyAlert{ID: "a2", Status: schema.AlertResolved}, nil).Times(1)

	w := e.request("POST", "/secret/alerts/a1/broadcast", "", nil, map[string]string{"Api-Token": "admin-key"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.request("POST", "/secret/alerts/a2/broadcast", "", nil, map[string]string{"Api-Token": "admin-key"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errorInvalidTransition.Code, decodeError(t, w).Code)

	w = e.request("POST", "/secret/alerts/a1/broadcast", "", nil, map[string]string{"Api-Token": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
