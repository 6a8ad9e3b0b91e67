package sitecmd

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

func baseOptions[T command.Message](logger interfaces.Logger, operation, permission string) []commands.HandlerOption[T] {
	return []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithPermission[T](permission),
	}
}

// NewSaveAreaHandler saves area content through the areas service.
func NewSaveAreaHandler(service areas.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveAreaCommand]) *commands.Handler[SaveAreaCommand] {
	exec := func(ctx context.Context, msg SaveAreaCommand) error {
		_, err := service.Save(ctx, areas.SaveRequest{
			Area:    msg.Area,
			Locale:  msg.Locale,
			Values:  msg.Values,
			ActorID: msg.ActorID,
		})
		return err
	}
	handlerOpts := append(baseOptions[SaveAreaCommand](logger, "area.save", permissions.ContentUpdate), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}

func NewImportAreaHandler(service areas.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ImportAreaCommand]) *commands.Handler[ImportAreaCommand] {
	exec := func(ctx context.Context, msg ImportAreaCommand) error {
		return service.Import(ctx, areas.ImportRequest{
			Area:    msg.Area,
			Values:  msg.Values,
			ActorID: msg.ActorID,
		})
	}
	handlerOpts := append(baseOptions[ImportAreaCommand](logger, "area.import", permissions.ContentUpdate), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}

func NewUpsertProjectHandler(service catalog.ProjectService, logger interfaces.Logger, opts ...commands.HandlerOption[UpsertProjectCommand]) *commands.Handler[UpsertProjectCommand] {
	exec := func(ctx context.Context, msg UpsertProjectCommand) error {
		id := msg.ID
		if id == uuid.Nil && msg.Input.Slug != "" {
			if existing, err := service.GetBySlug(ctx, msg.Input.Slug); err == nil {
				id = existing.ID
			} else if !catalog.IsNotFound(err) {
				return err
			}
		}
		var err error
		if id == uuid.Nil {
			_, err = service.Create(ctx, msg.Input, msg.ActorID)
		} else {
			_, err = service.Update(ctx, id, msg.Input, msg.ActorID)
		}
		return err
	}
	handlerOpts := append(baseOptions[UpsertProjectCommand](logger, "project.upsert", permissions.ProjectsUpdate), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}

func NewDeleteProjectHandler(service catalog.ProjectService, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteProjectCommand]) *commands.Handler[DeleteProjectCommand] {
	exec := func(ctx context.Context, msg DeleteProjectCommand) error {
		return service.Delete(ctx, msg.ID)
	}
	handlerOpts := append(baseOptions[DeleteProjectCommand](logger, "project.delete", permissions.ProjectsDelete), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}

func NewUpsertClientHandler(service catalog.ClientService, logger interfaces.Logger, opts ...commands.HandlerOption[UpsertClientCommand]) *commands.Handler[UpsertClientCommand] {
	exec := func(ctx context.Context, msg UpsertClientCommand) error {
		var err error
		if msg.ID == uuid.Nil {
			_, err = service.Create(ctx, msg.Input, msg.ActorID)
		} else {
			_, err = service.Update(ctx, msg.ID, msg.Input, msg.ActorID)
		}
		return err
	}
	handlerOpts := append(baseOptions[UpsertClientCommand](logger, "client.upsert", permissions.ClientsUpdate), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}

func NewDeleteClientHandler(service catalog.ClientService, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteClientCommand]) *commands.Handler[DeleteClientCommand] {
	exec := func(ctx context.Context, msg DeleteClientCommand) error {
		return service.Delete(ctx, msg.ID)
	}
	handlerOpts := append(baseOptions[DeleteClientCommand](logger, "client.delete", permissions.ClientsDelete), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}

func NewSubmitContactHandler(service contact.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SubmitContactCommand]) *commands.Handler[SubmitContactCommand] {
	exec := func(ctx context.Context, msg SubmitContactCommand) error {
		_, err := service.Submit(ctx, msg.Locale, msg.Form)
		return err
	}
	handlerOpts := append(baseOptions[SubmitContactCommand](logger, "contact.submit", ""), opts...)
	return commands.NewHandler(exec, handlerOpts...)
}
