package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/streamhub/internal/models"
)

// CallbackAction enumerates the inline-keyboard actions the bot dispatches.
// Anything outside this set is ignored.
type CallbackAction int

const (
	ActionSelectType CallbackAction = iota
	ActionAddAnotherLink
	ActionFinishUpload
	ActionEditStart
	ActionEditField
	ActionEditCancel
	ActionDeleteConfirm
	ActionDeleteExecute
)

// Callback is a decoded inline-keyboard payload
type Callback struct {
	Action      CallbackAction
	ContentType models.ContentType   // ActionSelectType
	Field       models.EditableField // ActionEditField
	ID          uint64               // ActionEditStart, ActionDeleteConfirm, ActionDeleteExecute
}

// Callback data layout: "<action>_<verb>[_<rest>]" where rest may itself
// contain underscores (field names, ids).
func callbackData(action, verb, rest string) string {
	if rest == "" {
		return action + "_" + verb
	}
	return action + "_" + verb + "_" + rest
}

// ParseCallback decodes raw callback data into a Callback. It returns
// ok=false for anything that is not a documented action/target pair.
func ParseCallback(data string) (Callback, bool) {
	parts := strings.SplitN(data, "_", 3)
	if len(parts) < 2 {
		return Callback{}, false
	}
	action, verb := parts[0], parts[1]
	rest := ""
	if len(parts) == 3 {
		rest = parts[2]
	}

	switch action {
	case "type":
		switch models.ContentType(verb) {
		case models.ContentTypeVideo, models.ContentTypeSeries:
			return Callback{Action: ActionSelectType, ContentType: models.ContentType(verb)}, true
		}

	case "add":
		switch verb {
		case "Yes":
			return Callback{Action: ActionAddAnotherLink}, true
		case "No":
			return Callback{Action: ActionFinishUpload}, true
		}

	case "edit":
		switch verb {
		case "start":
			id, err := parseID(rest)
			if err != nil {
				return Callback{}, false
			}
			return Callback{Action: ActionEditStart, ID: id}, true
		case "field":
			if !models.KnownEditableField(rest) {
				return Callback{}, false
			}
			return Callback{Action: ActionEditField, Field: models.EditableField(rest)}, true
		case "cancel":
			return Callback{Action: ActionEditCancel}, true
		}

	case "delete":
		id, err := parseID(rest)
		if err != nil {
			return Callback{}, false
		}
		switch verb {
		case "confirm":
			return Callback{Action: ActionDeleteConfirm, ID: id}, true
		case "execute":
			return Callback{Action: ActionDeleteExecute, ID: id}, true
		}
	}

	return Callback{}, false
}

func parseID(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	return strconv.ParseUint(s, 10, 64)
}
