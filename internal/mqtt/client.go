// Package mqtt bridges broker topics into the console: gamepad attach/detach
// notifications go to the device bus, command-sent signals to the health monitor.
package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"teleop_console/internal/logger"
)

const (
	connectTimeout  = 10 * time.Second
	disconnectQuies = 250 // ms
)

// ClientConfig holds MQTT client configuration.
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// Client manages the broker connection.
type Client struct {
	client paho.Client
	log    *logger.Logger
}

// NewClient connects to the broker. onConnect runs after every (re)connect,
// which is where subscriptions are (re)established.
func NewClient(cfg ClientConfig, log *logger.Logger, onConnect func(paho.Client)) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetDefaultPublishHandler(func(_ paho.Client, msg paho.Message) {
		log.Debugw("mqtt_unhandled_message", "topic", msg.Topic())
	})
	opts.SetOnConnectHandler(func(c paho.Client) {
		log.Infow("mqtt_connected", "broker", cfg.Broker)
		if onConnect != nil {
			onConnect(c)
		}
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warnw("mqtt_connection_lost", "err", err)
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to MQTT broker %s: timed out after %s", cfg.Broker, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", cfg.Broker, err)
	}

	return &Client{client: client, log: log}, nil
}

// IsConnected returns whether the client is currently connected.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *Client) Close() {
	c.client.Disconnect(disconnectQuies)
	c.log.Infow("mqtt_disconnected")
}
