package sitecmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract for handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Services are the collaborators the site handlers drive.
type Services struct {
	Areas    areas.Service
	Projects catalog.ProjectService
	Clients  catalog.ClientService
	Contact  contact.Service
}

// HandlerSet groups the site command handlers.
type HandlerSet struct {
	SaveArea      *commands.Handler[SaveAreaCommand]
	ImportArea    *commands.Handler[ImportAreaCommand]
	UpsertProject *commands.Handler[UpsertProjectCommand]
	DeleteProject *commands.Handler[DeleteProjectCommand]
	UpsertClient  *commands.Handler[UpsertClientCommand]
	DeleteClient  *commands.Handler[DeleteClientCommand]
	SubmitContact *commands.Handler[SubmitContactCommand]
}

// RegisterSiteCommands builds the handlers and registers them with reg when
// it is not nil.
func RegisterSiteCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if services.Areas == nil || services.Projects == nil || services.Clients == nil || services.Contact == nil {
		return nil, errors.New("site command registration: services are incomplete")
	}

	set := &HandlerSet{
		SaveArea:      NewSaveAreaHandler(services.Areas, commands.CommandLogger(provider, "areas")),
		ImportArea:    NewImportAreaHandler(services.Areas, commands.CommandLogger(provider, "areas")),
		UpsertProject: NewUpsertProjectHandler(services.Projects, commands.CommandLogger(provider, "catalog")),
		DeleteProject: NewDeleteProjectHandler(services.Projects, commands.CommandLogger(provider, "catalog")),
		UpsertClient:  NewUpsertClientHandler(services.Clients, commands.CommandLogger(provider, "catalog")),
		DeleteClient:  NewDeleteClientHandler(services.Clients, commands.CommandLogger(provider, "catalog")),
		SubmitContact: NewSubmitContactHandler(services.Contact, commands.CommandLogger(provider, "contact")),
	}

	if reg != nil {
		for _, handler := range set.all() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func (s *HandlerSet) all() []any {
	return []any{s.SaveArea, s.ImportArea, s.UpsertProject, s.DeleteProject, s.UpsertClient, s.DeleteClient, s.SubmitContact}
}

// Subscription is returned by the go-command dispatcher.
type Subscription interface {
	Unsubscribe()
}

// Subscribe attaches every handler to the go-command dispatcher so callers
// can use dispatcher.Dispatch. Call Unsubscribe on each result when done.
func (s *HandlerSet) Subscribe() []Subscription {
	return []Subscription{
		dispatcher.SubscribeCommand(s.SaveArea),
		dispatcher.SubscribeCommand(s.ImportArea),
		dispatcher.SubscribeCommand(s.UpsertProject),
		dispatcher.SubscribeCommand(s.DeleteProject),
		dispatcher.SubscribeCommand(s.UpsertClient),
		dispatcher.SubscribeCommand(s.DeleteClient),
		dispatcher.SubscribeCommand(s.SubmitContact),
	}
}
