package protocol

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// CreateNoteRequest appends an entry, creating the notepad if needed.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Game    string `json:"current_game"`
}

// ReadNoteRequest loads one notepad.
type ReadNoteRequest struct {
	Title string `json:"title" validate:"required"`
	Game  string `json:"current_game"`
}

// ListNotesRequest summarizes a game.
type ListNotesRequest struct {
	Game string `json:"current_game"`
}

// DeleteNoteRequest removes a whole notepad. Content is accepted for
// compatibility and ignored.
type DeleteNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Game    string `json:"current_game"`
}

// SearchNotesRequest searches a game, or one notepad when Title is set.
type SearchNotesRequest struct {
	Query string `json:"query" validate:"required"`
	Title string `json:"title"`
	Game  string `json:"current_game"`
}

// ExportNotesRequest exports a notepad, a game or everything.
type ExportNotesRequest struct {
	Scope string `json:"scope" default:"game" validate:"oneof=notepad game all"`
	Title string `json:"title"`
	Game  string `json:"current_game"`
}

// ClearNotesRequest stages a game, or every game, into the undo buffer.
type ClearNotesRequest struct {
	Scope string `json:"scope" default:"game" validate:"oneof=game all"`
	Game  string `json:"current_game"`
}

// UndoClearRequest restores the last clear. It takes no parameters.
type UndoClearRequest struct{}

// ParamError reports an unusable command parameter.
type ParamError struct {
	Field string
	Msg   string
}

func (e *ParamError) Error() string {
	return e.Msg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requiredMessages mirrors the wording callers already rely on.
var requiredMessages = map[string]string{
	"title":   "Missing required parameter: title (notepad name)",
	"content": "Missing required parameter: content (entry to add)",
	"query":   "Missing required parameter: query",
}

// Decode maps a command onto its typed request and validates it.
// Unknown commands yield (nil, nil); the dispatcher reports those itself.
func Decode(cmd Command) (any, error) {
	var req any
	switch cmd.Func {
	case FuncCreateNote:
		req = &CreateNoteRequest{}
	case FuncReadNote:
		req = &ReadNoteRequest{}
	case FuncListNotes:
		req = &ListNotesRequest{}
	case FuncDeleteNote:
		req = &DeleteNoteRequest{}
	case FuncSearch:
		req = &SearchNotesRequest{}
	case FuncExport:
		req = &ExportNotesRequest{}
	case FuncClear:
		req = &ClearNotesRequest{}
	case FuncUndoClear:
		return &UndoClearRequest{}, nil
	default:
		return nil, nil
	}
	if err := bind(cmd.Params, req); err != nil {
		return nil, err
	}
	return req, nil
}

// bind copies params into req, applies defaults and validates.
func bind(params map[string]any, req any) error {
	flat := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case nil:
		case string:
			flat[k] = t
		default:
			flat[k] = fmt.Sprint(t)
		}
	}

	raw, err := sonic.Marshal(flat)
	if err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if err := sonic.Unmarshal(raw, req); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if err := defaults.Set(req); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	err = validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return paramError(verrs[0])
}

func paramError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		msg, ok := requiredMessages[field]
		if !ok {
			msg = "Missing required parameter: " + field
		}
		return &ParamError{Field: field, Msg: msg}
	case "oneof":
		allowed := strings.Fields(fe.Param())
		quoted := make([]string, len(allowed))
		for i, a := range allowed {
			quoted[i] = "'" + a + "'"
		}
		return &ParamError{
			Field: field,
			Msg:   fmt.Sprintf("Invalid %s '%v'. Must be %s", field, fe.Value(), joinOr(quoted)),
		}
	}
	return &ParamError{Field: field, Msg: fmt.Sprintf("Invalid parameter: %s", field)}
}

// joinOr renders ["a","b","c"] as "a, b, or c" and ["a","b"] as "a or b".
func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}
