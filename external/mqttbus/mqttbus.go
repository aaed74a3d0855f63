package mqttbus

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const (
	logPrefix      = "mqttbus"
	connectTimeout = 10 * time.Second
)

var ErrConnectTimeout = fmt.Errorf("mqtt connect timeout")

// Handler receives the raw payload of a message on a subscribed topic.
type Handler func(topic string, payload []byte)

// Bus is the publish/subscribe surface used by sensors and positioning feeds.
type Bus interface {
	Subscribe(topic string, handler Handler) error
	Unsubscribe(topic string) error
	Publish(topic string, v interface{}) error
	Close()
}

type Config struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	QoS      byte   `mapstructure:"qos"`
}

type pahoBus struct {
	client mqtt.Client
	qos    byte
}

// Connect opens a connection to the broker and returns a ready Bus.
func Connect(cfg Config) (Bus, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"broker": cfg.Broker,
			"error":  err,
		}).Warn("mqtt connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, ErrConnectTimeout
	}
	if err := token.Error(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"broker": cfg.Broker,
	}).Info("connected to mqtt broker")

	return &pahoBus{client: client, qos: cfg.QoS}, nil
}

func (b *pahoBus) Subscribe(topic string, handler Handler) error {
	token := b.client.Subscribe(topic, b.qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"topic":  topic,
	}).Info("subscribed to mqtt topic")
	return nil
}

func (b *pahoBus) Unsubscribe(topic string) error {
	token := b.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// Publish sends v encoded as json.
func (b *pahoBus) Publish(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	token := b.client.Publish(topic, b.qos, false, payload)
	token.Wait()
	return token.Error()
}

func (b *pahoBus) Close() {
	b.client.Disconnect(250)
}
