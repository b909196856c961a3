package bot

import (
	"testing"

	"github.com/amaumene/streamhub/internal/models"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data   string
		ok     bool
		action CallbackAction
	}{
		{"type_Video", true, ActionSelectType},
		{"type_Series", true, ActionSelectType},
		{"type_Movie", false, 0},
		{"add_Yes", true, ActionAddAnotherLink},
		{"add_No", true, ActionFinishUpload},
		{"add_Maybe", false, 0},
		{"edit_start_12", true, ActionEditStart},
		{"edit_start_", false, 0},
		{"edit_start_abc", false, 0},
		{"edit_field_title", true, ActionEditField},
		{"edit_field_thumbnail_url", true, ActionEditField},
		{"edit_field_tags", true, ActionEditField},
		{"edit_field_views", false, 0},
		{"edit_cancel", true, ActionEditCancel},
		{"delete_confirm_3", true, ActionDeleteConfirm},
		{"delete_execute_3", true, ActionDeleteExecute},
		{"delete_execute_x", false, 0},
		{"delete_confirm", false, 0},
		{"", false, 0},
		{"garbage", false, 0},
		{"unknown_action_1", false, 0},
	}

	for _, tt := range tests {
		cb, ok := ParseCallback(tt.data)
		if ok != tt.ok {
			t.Errorf("ParseCallback(%q) ok=%v, want %v", tt.data, ok, tt.ok)
			continue
		}
		if ok && cb.Action != tt.action {
			t.Errorf("ParseCallback(%q) action=%v, want %v", tt.data, cb.Action, tt.action)
		}
	}
}

func TestParseCallbackTargets(t *testing.T) {
	cb, ok := ParseCallback("edit_field_thumbnail_url")
	if !ok || cb.Field != models.FieldThumbnail {
		t.Errorf("Expected thumbnail_url field, got %+v ok=%v", cb, ok)
	}

	cb, ok = ParseCallback("edit_start_77")
	if !ok || cb.ID != 77 {
		t.Errorf("Expected id 77, got %+v ok=%v", cb, ok)
	}

	cb, ok = ParseCallback("type_Series")
	if !ok || cb.ContentType != models.ContentTypeSeries {
		t.Errorf("Expected Series type, got %+v ok=%v", cb, ok)
	}
}
