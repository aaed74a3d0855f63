package api

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/guardknight/guardknight-api/crowd"
	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/store"
	"github.com/guardknight/guardknight-api/volunteer"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	store store.Pinger

	// Domain services
	alerts    *emergency.Manager
	tracker   *geo.Tracker
	matcher   *volunteer.Matcher
	directory volunteer.Directory
	monitor   *crowd.Monitor

	volunteerRadiusKm float64

	// JWT public key of the token issuer
	jwtPublicKey *rsa.PublicKey

	metrics  http.Handler
	upgrader websocket.Upgrader
}

// NewServer new instance of server. monitor may be nil when the crowd
// monitoring is disabled.
func NewServer(
	pinger store.Pinger,
	alerts *emergency.Manager,
	tracker *geo.Tracker,
	directory volunteer.Directory,
	monitor *crowd.Monitor,
	jwtKey *rsa.PublicKey,
	metrics http.Handler) *Server {
	radius := viper.GetFloat64("emergency.volunteer_radius")
	if radius <= 0 {
		radius = emergency.DefaultConfig().VolunteerRadiusKm
	}

	return &Server{
		store:             pinger,
		alerts:            alerts,
		tracker:           tracker,
		matcher:           volunteer.NewMatcher(),
		directory:         directory,
		monitor:           monitor,
		volunteerRadiusKm: radius,
		jwtPublicKey:      jwtKey,
		metrics:           metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(ginrus("API"))
	apiRoute.GET("/information", s.information)

	// api route other than `/information` will apply the following middleware
	apiRoute.Use(s.clientVersionGateway())
	apiRoute.Use(s.authMiddleware())
	apiRoute.Use(s.geoPositionMiddleware)

	alertRoute := apiRoute.Group("/alerts")
	{
		alertRoute.POST("", s.createAlert)
		alertRoute.GET("/stream", s.alertStream)
		alertRoute.GET("/:alertID", s.getAlert)
		alertRoute.PATCH("/:alertID", s.updateAlertStatus)
		alertRoute.POST("/:alertID/false-alarm", s.resolveFalseAlarm)
		alertRoute.POST("/:alertID/responders", s.respondAlert)
	}

	volunteerRoute := apiRoute.Group("/volunteers")
	{
		volunteerRoute.GET("/nearby", s.nearbyVolunteers)
	}

	crowdRoute := apiRoute.Group("/crowd")
	crowdRoute.Use(s.crowdMonitorRequired)
	{
		crowdRoute.GET("/snapshot", s.crowdSnapshot)
		crowdRoute.GET("/heatmap", s.crowdHeatmap)
		crowdRoute.POST("/issues", s.reportCrowdIssue)
	}

	placeRoute := apiRoute.Group("/places")
	{
		placeRoute.GET("/reverse", s.reverseGeocode)
		placeRoute.GET("/search", s.searchPlaces)
	}

	secretRoute := r.Group("/secret")
	secretRoute.Use(ginrus("Secret"))
	secretRoute.Use(s.apikeyAuthentication(viper.GetString("server.apikey.admin")))
	{
		secretRoute.POST("/alerts/:alertID/broadcast", s.adminRebroadcastAlert)
	}

	if s.metrics != nil {
		metricRoute := r.Group("/metrics")
		metricRoute.Use(ginrus("Metric"))
		metricRoute.Use(cors.New(cors.Config{
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Origin"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			AllowAllOrigins:  true,
			MaxAge:           12 * time.Hour,
		}))
		metricRoute.Use(s.apikeyAuthentication(viper.GetString("server.apikey.metric")))
		{
			metricRoute.GET("", gin.WrapH(s.metrics))
		}
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	err := s.store.Ping()
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"android":        viper.GetStringMap("clients.android"),
			"ios":            viper.GetStringMap("clients.ios"),
			"system_version": "GuardKnight 1.0",
			"crowd_mode":     s.monitor != nil,
			"docs":           viper.GetStringMap("docs"),
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
