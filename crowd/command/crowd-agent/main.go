package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/guardknight/guardknight-api/crowd"
	"github.com/guardknight/guardknight-api/external/mqttbus"
	"github.com/guardknight/guardknight-api/geo"
	"github.com/guardknight/guardknight-api/schema"
)

const logPrefix = "crowd-agent"

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

// crowd-agent runs next to a radio scanner. It samples the device counts the
// scanner publishes, attributes them to the fixes of a positioning feed and
// publishes one snapshot per tick.
func main() {
	var configFile string

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	var mqttConfig mqttbus.Config
	if err := viper.UnmarshalKey("mqtt", &mqttConfig); err != nil {
		log.Panic(err)
	}

	bus, err := mqttbus.Connect(mqttConfig)
	if err != nil {
		log.Panic(err)
	}
	defer bus.Close()

	var provider crowd.DeviceCountProvider
	if topic := viper.GetString("crowd.topic"); topic != "" {
		provider, err = crowd.NewMQTTDeviceCountProvider(bus, topic, viper.GetDuration("crowd.max_age"))
		if err != nil {
			log.Panic(err)
		}
	} else {
		provider = crowd.NewSimulatedDeviceCountProvider(time.Now().UnixNano())
	}

	var locator crowd.Locator
	if topic := viper.GetString("agent.location_topic"); topic != "" {
		positioning, err := geo.NewMQTTPositioning(bus, topic, viper.GetDuration("agent.max_fix_age"))
		if err != nil {
			log.Panic(err)
		}
		locator = geo.NewTracker(positioning, nil, geo.DefaultConfig())
	}

	var config crowd.Config
	if err := viper.UnmarshalKey("crowd", &config); err != nil {
		log.Panic(err)
	}

	snapshotTopic := viper.GetString("agent.snapshot_topic")
	monitor := crowd.NewMonitor(provider, locator, config, nil)
	monitor.StartMonitoring(func(snapshot schema.CrowdSnapshot) {
		if snapshot.AutoActivated {
			log.WithFields(log.Fields{
				"prefix":  logPrefix,
				"devices": snapshot.TotalDevices,
				"tier":    snapshot.DensityTier,
			}).Warn("crowd mode activated")
		}

		if snapshotTopic == "" {
			return
		}
		if err := bus.Publish(snapshotTopic, snapshot); err != nil {
			log.WithFields(log.Fields{
				"prefix": logPrefix,
				"error":  err,
			}).Error("publish crowd snapshot")
		}
	})

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.WithField("prefix", logPrefix).Info("agent is preparing to shutdown")
	monitor.StopMonitoring()
}
