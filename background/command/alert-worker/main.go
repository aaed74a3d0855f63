package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"

	"github.com/guardknight/guardknight-api/background"
	"github.com/guardknight/guardknight-api/emergency"
	"github.com/guardknight/guardknight-api/external/dispatch"
	"github.com/guardknight/guardknight-api/external/onesignal"
	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/store"
	"github.com/guardknight/guardknight-api/utils"
	"github.com/guardknight/guardknight-api/volunteer"
)

var (
	safetyStore *store.SafetyStore
	manager     *background.BackgroundManager
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

func notificationCenter(ctx context.Context, httpClient *http.Client) background.NotificationCenter {
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
		log.WithField("prefix", "init").Warn("no notification provider, volunteers will not be notified")
		return nil
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Worker is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		if manager != nil {
			log.Info("Stop background worker")
			manager.Stop()
		}

		if safetyStore != nil {
			log.Info("Shutting down safety store")
			safetyStore.Close()
		}

		sentry.Flush(2 * time.Second)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
	}); err != nil {
		log.Error(err)
	}

	utils.InitI18NBundle()

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	ormDB, err := gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		log.Panic(err)
	}

	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		log.Panicf("create mongo client with error: %s", err)
	}

	if err := mongoClient.Connect(initialCtx); nil != err {
		log.Panicf("connect mongo database with error: %s", err)
	}

	// the worker never creates alerts, so no listener is needed
	safetyStore = store.NewSafetyStore(ormDB, store.NewMongoStore(mongoClient, viper.GetString("mongo.database")), "")

	var emergencyConfig emergency.Config
	if err := viper.UnmarshalKey("emergency", &emergencyConfig); err != nil {
		log.Panic(err)
	}

	notifier := background.NewAlertNotifier(
		notificationCenter(initialCtx, httpClient),
		dispatch.New(viper.GetString("dispatch.endpoint"), viper.GetString("dispatch.token"), httpClient),
		viper.GetString("notification.coordinator_topic"))

	alerts := emergency.NewManager(
		geo.NewTracker(nil, nil, geo.DefaultConfig()),
		safetyStore,
		volunteer.NewMatcher(),
		safetyStore,
		notifier,
		emergencyConfig)

	taskServer, err := machinery.NewServer(&config.Config{
		Broker:        viper.GetString("redis.conn"),
		DefaultQueue:  "guardknight_background",
		ResultBackend: viper.GetString("redis.conn"),
	})
	if err != nil {
		log.Panic(err)
	}

	manager = background.New(alerts, taskServer, emergencyConfig.BroadcastTimeout)
	if err := manager.RegisterTasks(); err != nil {
		log.Panic(err)
	}

	initialCtx = nil
	cancelInitialization = nil

	if err := manager.Run(viper.GetInt("worker.concurrency")); err != nil {
		log.WithField("prefix", "worker").Error(err)
	}
}
