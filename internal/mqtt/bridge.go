package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"teleop_console/internal/logger"
	"teleop_console/internal/models"
)

const qosAtLeastOnce byte = 1

// DeviceInput receives gamepad notifications. *devicebus.Bus satisfies it.
type DeviceInput interface {
	PublishAttach(ev models.AttachEvent)
	PublishDetach(ev models.DetachEvent)
}

// ActivityRecorder receives command-sent signals.
type ActivityRecorder interface {
	RecordActivity() bool
}

// Topics under prefix.
type Topics struct {
	Attach  string
	Detach  string
	Command string
}

func TopicsFor(prefix string) Topics {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	return Topics{
		Attach:  p + "/gamepad/attach",
		Detach:  p + "/gamepad/detach",
		Command: p + "/link/command",
	}
}

var errMissingIndex = errors.New("payload has no index")

// Bridge routes broker messages into the console.
type Bridge struct {
	topics   Topics
	devices  DeviceInput
	activity ActivityRecorder
	log      *logger.Logger
}

func NewBridge(topics Topics, devices DeviceInput, activity ActivityRecorder, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	return &Bridge{topics: topics, devices: devices, activity: activity, log: log}
}

// Subscribe registers all topic handlers on c. It is meant to be passed as
// the client's onConnect hook.
func (b *Bridge) Subscribe(c paho.Client) {
	filters := map[string]byte{
		b.topics.Attach:  qosAtLeastOnce,
		b.topics.Detach:  qosAtLeastOnce,
		b.topics.Command: qosAtLeastOnce,
	}
	token := c.SubscribeMultiple(filters, b.route)
	if token.Wait() && token.Error() != nil {
		b.log.Errorw("mqtt_subscribe_failed", "err", token.Error())
		return
	}
	b.log.Infow("mqtt_subscribed", "attach", b.topics.Attach, "detach", b.topics.Detach, "command", b.topics.Command)
}

func (b *Bridge) route(_ paho.Client, msg paho.Message) {
	var err error
	switch msg.Topic() {
	case b.topics.Attach:
		err = b.handleAttach(msg.Payload())
	case b.topics.Detach:
		err = b.handleDetach(msg.Payload())
	case b.topics.Command:
		b.handleCommand()
	default:
		b.log.Debugw("mqtt_unknown_topic", "topic", msg.Topic())
	}
	if err != nil {
		b.log.Warnw("mqtt_bad_payload", "topic", msg.Topic(), "err", err)
	}
}

// gamepadPayload is {"index":0,"id":"..."}; id is ignored for detach.
type gamepadPayload struct {
	Index *int   `json:"index"`
	ID    string `json:"id"`
}

func decodeGamepad(payload []byte) (gamepadPayload, error) {
	var p gamepadPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return p, fmt.Errorf("decode gamepad payload: %w", err)
	}
	if p.Index == nil {
		return p, errMissingIndex
	}
	return p, nil
}

func (b *Bridge) handleAttach(payload []byte) error {
	p, err := decodeGamepad(payload)
	if err != nil {
		return err
	}
	b.devices.PublishAttach(models.AttachEvent{Index: *p.Index, Identifier: p.ID})
	return nil
}

func (b *Bridge) handleDetach(payload []byte) error {
	p, err := decodeGamepad(payload)
	if err != nil {
		return err
	}
	b.devices.PublishDetach(models.DetachEvent{Index: *p.Index})
	return nil
}

// Command payloads are opaque; any message counts as a command sent.
func (b *Bridge) handleCommand() {
	if !b.activity.RecordActivity() {
		b.log.Debugw("mqtt_command_ignored_in_demo")
	}
}
