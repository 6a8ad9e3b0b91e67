package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/locale"
)

const (
	saveAreaMessageType      = "sitecms.area.save"
	importAreaMessageType    = "sitecms.area.import"
	upsertProjectMessageType = "sitecms.project.upsert"
	deleteProjectMessageType = "sitecms.project.delete"
	upsertClientMessageType  = "sitecms.client.upsert"
	deleteClientMessageType  = "sitecms.client.delete"
	submitContactMessageType = "sitecms.contact.submit"
)

var notBlank = validation.By(func(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
})

var notNilUUID = validation.By(func(value any) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
})

// SaveAreaCommand writes a flat single-locale update to an area.
type SaveAreaCommand struct {
	Area    string         `json:"area"`
	Locale  locale.Locale  `json:"locale"`
	Values  map[string]any `json:"values"`
	ActorID uuid.UUID      `json:"actor_id"`
}

func (SaveAreaCommand) Type() string { return saveAreaMessageType }

func (m SaveAreaCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Area, notBlank),
		validation.Field(&m.Locale, validation.Required),
		validation.Field(&m.Values, validation.Required),
	)
}

// ImportAreaCommand loads an area from the legacy wide shape.
type ImportAreaCommand struct {
	Area    string         `json:"area"`
	Values  map[string]any `json:"values"`
	ActorID uuid.UUID      `json:"actor_id"`
}

func (ImportAreaCommand) Type() string { return importAreaMessageType }

func (m ImportAreaCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Area, notBlank),
		validation.Field(&m.Values, validation.Required),
	)
}

// UpsertProjectCommand creates a project when ID is nil, otherwise replaces
// it. When ID is nil and Input.Slug names an existing project, that project
// is replaced, which keeps fixture imports idempotent.
type UpsertProjectCommand struct {
	ID      uuid.UUID            `json:"id"`
	Input   catalog.ProjectInput `json:"input"`
	ActorID uuid.UUID            `json:"actor_id"`
}

func (UpsertProjectCommand) Type() string { return upsertProjectMessageType }

func (m UpsertProjectCommand) Validate() error {
	if len(m.Input.Title) == 0 {
		return validation.Errors{
			"title": validation.NewError("sitecms.project.title_required", "title is required"),
		}
	}
	return nil
}

type DeleteProjectCommand struct {
	ID uuid.UUID `json:"id"`
}

func (DeleteProjectCommand) Type() string { return deleteProjectMessageType }

func (m DeleteProjectCommand) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.ID, notNilUUID))
}

// UpsertClientCommand creates a client when ID is nil, otherwise replaces it.
type UpsertClientCommand struct {
	ID      uuid.UUID           `json:"id"`
	Input   catalog.ClientInput `json:"input"`
	ActorID uuid.UUID           `json:"actor_id"`
}

func (UpsertClientCommand) Type() string { return upsertClientMessageType }

func (m UpsertClientCommand) Validate() error {
	if len(m.Input.Name) == 0 {
		return validation.Errors{
			"name": validation.NewError("sitecms.client.name_required", "name is required"),
		}
	}
	return nil
}

type DeleteClientCommand struct {
	ID uuid.UUID `json:"id"`
}

func (DeleteClientCommand) Type() string { return deleteClientMessageType }

func (m DeleteClientCommand) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.ID, notNilUUID))
}

// SubmitContactCommand forwards a visitor message. Field rules run in the
// contact service so the caller gets localized per-field errors.
type SubmitContactCommand struct {
	Locale locale.Locale `json:"locale"`
	Form   contact.Form  `json:"form"`
}

func (SubmitContactCommand) Type() string { return submitContactMessageType }

func (m SubmitContactCommand) Validate() error {
	return validation.ValidateStruct(&m, validation.Field(&m.Locale, validation.Required))
}
