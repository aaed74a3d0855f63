package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	machineryconf "github.com/RichardKnop/machinery/v1/config"
	"github.com/dgrijalva/jwt-go"
	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"
	promreporter "github.com/uber-go/tally/prometheus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"
	"googlemaps.github.io/maps"

	"github.com/guardknight/guardknight-api/api"
	"github.com/guardknight/guardknight-api/background"
	"github.com/guardknight/guardknight-api/crowd"
	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/external/dispatch"
	"github.com/guardknight/guardknight-api/external/mqttbus"
	"github.com/guardknight/guardknight-api/external/nominatim"
	"github.com/guardknight/guardknight-api/external/onesignal"
	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/store"
	"github.com/guardknight/guardknight-api/utils"
	"github.com/guardknight/guardknight-api/volunteer"
)

var (
	server      *api.Server
	ormDB       *gorm.DB
	safetyStore *store.SafetyStore
	dispatcher  *background.TaskDispatcher
	monitor     *crowd.Monitor
	bus         mqttbus.Bus
	scopeCloser func() error
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("guardknight")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func initMetrics() (tally.Scope, http.Handler) {
	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "guardknight",
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, time.Second)
	scopeCloser = closer.Close
	return scope, reporter.HTTPHandler()
}

// initGeocoder chains google maps, when a key is configured, in front of
// nominatim
func initGeocoder(httpClient *http.Client) geo.Geocoder {
	geocoders := make([]geo.Geocoder, 0, 2)

	if key := viper.GetString("map.key"); key != "" {
		client, err := maps.NewClient(maps.WithAPIKey(key), maps.WithHTTPClient(httpClient))
		if err != nil {
			log.Panic(err)
		}
		geocoders = append(geocoders, geo.NewGoogleGeocoder(client, viper.GetString("map.language")))
	}

	geocoders = append(geocoders, geo.NewNominatimGeocoder(nominatim.New(viper.GetString("nominatim.url"), httpClient)))

	return geo.NewMultipleGeocoder(geocoders...)
}

func initNotificationCenter(ctx context.Context, httpClient *http.Client) background.NotificationCenter {
	switch viper.GetString("notification.provider") {
	case "fcm":
		center, err := background.NewFCMNotificationCenter(ctx, option.WithCredentialsFile(viper.GetString("fcm.credentials")))
		if err != nil {
			log.Panic(err)
		}
		return center
	case "onesignal":
		return background.NewOnesignalNotificationCenter(
			viper.GetString("onesignal.appid"),
			onesignal.NewClient(httpClient, viper.GetString("onesignal.apikey")))
	default:
		return nil
	}
}

func initCrowdMonitor(scope tally.Scope, reporter crowd.IssueReporter) *crowd.Monitor {
	var config crowd.Config
	if err := viper.UnmarshalKey("crowd", &config); err != nil {
		log.Panic(err)
	}

	var provider crowd.DeviceCountProvider
	if topic := viper.GetString("crowd.topic"); topic != "" {
		var mqttConfig mqttbus.Config
		if err := viper.UnmarshalKey("mqtt", &mqttConfig); err != nil {
			log.Panic(err)
		}

		var err error
		bus, err = mqttbus.Connect(mqttConfig)
		if err != nil {
			log.Panic(err)
		}

		provider, err = crowd.NewMQTTDeviceCountProvider(bus, topic, viper.GetDuration("crowd.max_age"))
		if err != nil {
			log.Panic(err)
		}
	} else {
		log.WithField("prefix", "init").Warn("no crowd topic, use simulated device counts")
		provider = crowd.NewSimulatedDeviceCountProvider(time.Now().UnixNano())
	}

	var locator crowd.Locator
	if viper.IsSet("crowd.venue.latitude") {
		locator = geo.NewTracker(geo.NewFixedPositioning(
			viper.GetFloat64("crowd.venue.latitude"),
			viper.GetFloat64("crowd.venue.longitude"),
			viper.GetFloat64("crowd.venue.accuracy")), nil, geo.DefaultConfig())
	}

	return crowd.NewMonitor(provider, locator, config, scope, crowd.WithIssueReporter(reporter))
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown mobile api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if monitor != nil {
			log.Info("Stop crowd monitoring")
			monitor.StopMonitoring()
		}

		if bus != nil {
			bus.Close()
		}

		if dispatcher != nil {
			log.Info("Wait for pending broadcast tasks")
			dispatcher.Wait()
		}

		if safetyStore != nil {
			log.Info("Shutting down safety store")
			safetyStore.Close()
		}

		if ormDB != nil {
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		if scopeCloser != nil {
			if err := scopeCloser(); err != nil {
				log.Error(err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	utils.InitI18NBundle()

	// Load JWT public key
	jwtKeyByte, err := ioutil.ReadFile(viper.GetString("jwt.public_keyfile"))
	if err != nil {
		log.Panic(err)
	}
	jwtPublicKey, err := jwt.ParseRSAPublicKeyFromPEM(jwtKeyByte)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded jwt public key")

	scope, metricsHandler := initMetrics()

	ormDB, err = gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		log.Panic(err)
	}

	// initialise mongodb connections
	var mongoStore store.MongoStore
	if conn := viper.GetString("mongo.conn"); conn != "" {
		opts := options.Client().ApplyURI(conn)
		opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
		mongoClient, err := mongo.NewClient(opts)
		if nil != err {
			log.Panicf("create mongo client with error: %s", err)
		}

		if err := mongoClient.Connect(initialCtx); nil != err {
			log.Panicf("connect mongo database with error: %s", err)
		}
		mongoStore = store.NewMongoStore(mongoClient, viper.GetString("mongo.database"))
	}

	listenerConn := viper.GetString("orm.listener")
	if listenerConn == "" {
		listenerConn = viper.GetString("orm.conn")
	}
	safetyStore = store.NewSafetyStore(ormDB, mongoStore, listenerConn)

	var directory volunteer.Directory = safetyStore
	if mongoStore == nil {
		roster, err := volunteer.LoadRoster(viper.GetString("volunteer.roster"))
		if err != nil {
			log.Panic(err)
		}
		directory = volunteer.NewIndexedDirectory(roster...)
		log.WithField("prefix", "init").Infof("Loaded %d volunteers from roster", len(roster))
	}

	tracker := geo.NewTracker(geo.ContextPositioning{}, initGeocoder(httpClient), geo.DefaultConfig())

	var emergencyConfig emergency.Config
	if err := viper.UnmarshalKey("emergency", &emergencyConfig); err != nil {
		log.Panic(err)
	}

	notifier := background.NewAlertNotifier(
		initNotificationCenter(initialCtx, httpClient),
		dispatch.New(viper.GetString("dispatch.endpoint"), viper.GetString("dispatch.token"), httpClient),
		viper.GetString("notification.coordinator_topic"))

	var alerts *emergency.Manager
	managerOpts := []emergency.Option{emergency.WithScope(scope)}
	if viper.GetString("redis.conn") != "" {
		fallback := emergency.NewAsyncDispatcher(func(ctx context.Context, alert schema.EmergencyAlert) emergency.BroadcastResult {
			return alerts.Broadcast(ctx, alert)
		}, emergencyConfig.BroadcastTimeout)

		taskServer, err := machinery.NewServer(&machineryconf.Config{
			Broker:        viper.GetString("redis.conn"),
			DefaultQueue:  "guardknight_background",
			ResultBackend: viper.GetString("redis.conn"),
		})
		if err != nil {
			log.Panic(err)
		}
		dispatcher = background.NewTaskDispatcher(taskServer, fallback)
		managerOpts = append(managerOpts, emergency.WithDispatcher(dispatcher))
	}

	alerts = emergency.NewManager(tracker, safetyStore, volunteer.NewMatcher(), directory, notifier, emergencyConfig, managerOpts...)

	if viper.GetBool("crowd.enabled") {
		monitor = initCrowdMonitor(scope, notifier)
		monitor.StartMonitoring(nil)
	}

	server = api.NewServer(
		safetyStore,
		alerts,
		tracker,
		directory,
		monitor,
		jwtPublicKey,
		metricsHandler)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
