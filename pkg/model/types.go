// Package model holds the value types shared by the engine, CLI and config.
package model

import "fmt"

// EngineType identifies the clone engine used.
type EngineType string

const (
	EngineAuto        EngineType = "auto"
	EngineReflinkCopy EngineType = "reflink-copy"
	EngineCopy        EngineType = "copy"
)

// ParseEngineType accepts the canonical names and the short forms
// "reflink" and "" (auto).
func ParseEngineType(s string) (EngineType, error) {
	switch s {
	case "", string(EngineAuto):
		return EngineAuto, nil
	case "reflink", string(EngineReflinkCopy):
		return EngineReflinkCopy, nil
	case string(EngineCopy):
		return EngineCopy, nil
	default:
		return "", fmt.Errorf("unknown engine %q", s)
	}
}

// CopyMethod records how a single file reached its destination.
type CopyMethod string

const (
	MethodReflink CopyMethod = "reflink"
	MethodCopy    CopyMethod = "copy"
)

// ReflinkSupport is the outcome of probing a pair of directories.
type ReflinkSupport string

const (
	SupportYes     ReflinkSupport = "supported"
	SupportNo      ReflinkSupport = "not-supported"
	SupportUnknown ReflinkSupport = "unknown"
)

// FileResult describes one file handled by a clone.
type FileResult struct {
	Path   string     `json:"path"`
	Method CopyMethod `json:"method"`
	Bytes  int64      `json:"bytes"`
}
