package models

import "time"

// Role is the functional category a controller is assigned to.
type Role string

const (
	RoleDrive        Role = "drive"
	RoleArm          Role = "arm"
	RoleUnclassified Role = "unclassified"
)

// ControllerDevice is a read-only snapshot of one attached gamepad.
// Index is assigned by the device source and is only stable for the life of
// one physical connection.
type ControllerDevice struct {
	Index      int       `json:"index"`
	Identifier string    `json:"id"`
	Role       Role      `json:"role"`
	AttachedAt time.Time `json:"attached_at"`
}

// SameConnection reports whether d and o describe the same physical
// connection. A reused index is a different device.
func (d ControllerDevice) SameConnection(o ControllerDevice) bool {
	return d.Index == o.Index && d.Identifier == o.Identifier && d.AttachedAt.Equal(o.AttachedAt)
}

// AttachEvent is emitted by a device source when a controller connects.
type AttachEvent struct {
	Index      int    `json:"index"`
	Identifier string `json:"id"`
}

// DetachEvent is emitted by a device source when a controller disconnects.
// It carries no role.
type DetachEvent struct {
	Index int `json:"index"`
}
