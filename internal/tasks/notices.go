package tasks

import (
	"fmt"
	"strings"

	"github.com/desertthunder/vowfolio/internal/models"
)

// Notice is a non-fatal message about a replicated mutation, shown to the user as a toast.
type Notice struct {
	Level   Level
	Op      Op
	Kind    models.Kind
	ID      string
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Message, n.Err)
	}
	return n.Message
}

// Level is the severity of a [Notice].
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// Op enumerates the replicated operations.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
	OpReorder
	OpUpload
	OpRefresh
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpReorder:
		return "reorder"
	case OpUpload:
		return "upload"
	case OpRefresh:
		return "refresh"
	default:
		return ""
	}
}

var pastTense = map[Op]string{
	OpCreate:  "created",
	OpUpdate:  "updated",
	OpDelete:  "deleted",
	OpReorder: "reordered",
	OpUpload:  "uploaded",
	OpRefresh: "refreshed",
}

func successNotice(op Op, kind models.Kind, id string) Notice {
	return Notice{
		Level:   LevelSuccess,
		Op:      op,
		Kind:    kind,
		ID:      id,
		Message: fmt.Sprintf("%s %s", capitalize(kind.String()), pastTense[op]),
	}
}

func failureNotice(op Op, kind models.Kind, id string, err error) Notice {
	return Notice{
		Level:   LevelError,
		Op:      op,
		Kind:    kind,
		ID:      id,
		Message: fmt.Sprintf("Failed to %s %s", op, kind),
		Err:     err,
	}
}

func refreshedNotice(kind models.Kind, parent string) Notice {
	msg := fmt.Sprintf("Reloaded %s list from server", kind)
	if parent != "" {
		msg = fmt.Sprintf("Reloaded %s list of %s from server", kind, parent)
	}
	return Notice{Level: LevelInfo, Op: OpRefresh, Kind: kind, ID: parent, Message: msg}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
