package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AccountRequest is the body of POST /users.
type AccountRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Limits are the resource limits applied to a created server.
// Memory, Swap and Disk are in MiB, IO is a block-IO weight, CPU a percentage.
type Limits struct {
	Memory int `json:"memory"`
	Swap   int `json:"swap"`
	Disk   int `json:"disk"`
	IO     int `json:"io"`
	CPU    int `json:"cpu"`
}

// FeatureLimits caps the databases, extra allocations and backups a server owner may create.
type FeatureLimits struct {
	Databases   int `json:"databases"`
	Allocations int `json:"allocations"`
	Backups     int `json:"backups"`
}

// AllocationRef selects the default network allocation of a new server.
type AllocationRef struct {
	Default int64 `json:"default"`
}

// ServerRequest is the body of POST /servers.
type ServerRequest struct {
	Name          string            `json:"name"`
	User          int64             `json:"user"`
	Egg           int64             `json:"egg"`
	DockerImage   string            `json:"docker_image"`
	Startup       string            `json:"startup"`
	Limits        Limits            `json:"limits"`
	Environment   map[string]string `json:"environment"`
	Allocation    AllocationRef     `json:"allocation"`
	FeatureLimits FeatureLimits     `json:"feature_limits"`
}

// Server is a server as listed by the panel.
type Server struct {
	ID   int64 `json:"id"`
	Node int64 `json:"node"`
}

// Allocation is an ip:port pair on a node.
type Allocation struct {
	ID       int64 `json:"id"`
	Assigned bool  `json:"assigned"`
}

type object[T any] struct {
	Attributes T `json:"attributes"`
}

type list[T any] struct {
	Data []object[T] `json:"data"`
	Meta struct {
		Pagination pagination `json:"pagination"`
	} `json:"meta"`
}

type pagination struct {
	Total       int `json:"total"`
	Count       int `json:"count"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type accountAttributes struct {
	ID int64 `json:"id"`
}

type serverAttributes struct {
	ID flexibleID `json:"id"`
}

// flexibleID accepts an id encoded either as a JSON number or a string.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", b)
	}
	*f = flexibleID(n.String())
	return nil
}
