package builds

import "time"

// SystemBuild is a client's network-cabling design. Completing it is what
// starts the purchase order cascade.
type SystemBuild struct {
	Code        string    `json:"code"`
	ClientCode  string    `json:"client_code"`
	IsComplete  bool      `json:"is_complete"`
	IsActive    bool      `json:"is_active"`
	DesignerID  *int64    `json:"designer_id,omitempty"`
	Notes       string    `json:"notes"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Connection joins two terminals with a cable inside a build.
type Connection struct {
	ID          int64  `json:"id"`
	BuildCode   string `json:"build_code"`
	Code        string `json:"code"`
	TerminalAID int64  `json:"terminal_a_id"`
	TerminalBID int64  `json:"terminal_b_id"`
	CableID     int64  `json:"cable_id"`
	Label       string `json:"label"`
}

// CreateInput describes a new build.
type CreateInput struct {
	ClientCode  string `json:"client_code" validate:"required,len=14"`
	DesignerID  *int64 `json:"designer_id" validate:"omitempty,gt=0"`
	Notes       string `json:"notes" validate:"max=5000"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateInput carries the mutable build fields. Nil fields are left unchanged.
type UpdateInput struct {
	DesignerID  *int64  `json:"designer_id" validate:"omitempty,gt=0"`
	Notes       *string `json:"notes" validate:"omitempty,max=5000"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
	IsComplete  *bool   `json:"is_complete"`
}

// ConnectionInput describes a new connection.
type ConnectionInput struct {
	TerminalAID int64  `json:"terminal_a_id" validate:"required,gt=0"`
	TerminalBID int64  `json:"terminal_b_id" validate:"required,gt=0"`
	CableID     int64  `json:"cable_id" validate:"required,gt=0"`
	Label       string `json:"label" validate:"max=100"`
}
