// Package tasks declares the task management screen: a table of tasks, a
// creation modal, and actions for completing and deleting tasks. It doubles
// as the reference configuration for building new screens.
package tasks

import (
	"context"
	"fmt"

	"panelcore/pkg/screen"
)

// EntityTask is the record bucket backing the screen.
const EntityTask screen.Entity = "task"

// Route is the admin route the screen is served under.
const Route = "tasks"

// Field paths shared between layout, actions, and handlers.
var (
	fieldName        = screen.MustFieldPath("task.name")
	fieldDescription = screen.MustFieldPath("task.description")
	fieldActive      = screen.MustFieldPath("task.active")
)

// Schema declares the task entity: name is mandatory, active defaults to
// true so new tasks appear in the open listing.
func Schema() screen.EntitySchema {
	return screen.EntitySchema{
		Entity: EntityTask,
		Fields: []screen.FieldSpec{
			{Name: "name", Required: true},
			{Name: "description"},
			{Name: "active", Default: true},
		},
	}
}

// Menu returns the navigation entry for the screen.
func Menu() *screen.MenuEntry {
	return &screen.MenuEntry{Label: "Tasks", Icon: "checklist", Route: Route}
}

// Definition builds the immutable screen definition.
func Definition() (*screen.ScreenDefinition, error) {
	name := screen.FieldDescriptor{
		Path:        fieldName,
		Label:       "Name",
		Placeholder: "What needs doing?",
		Rules:       []screen.Rule{screen.Required(), screen.MaxLength(255)},
	}
	description := screen.FieldDescriptor{
		Path:     fieldDescription,
		Label:    "Description",
		HelpText: "Optional context shown in the task detail.",
		Rules:    []screen.Rule{screen.MaxLength(2000)},
	}
	active := screen.FieldDescriptor{
		Path:  fieldActive,
		Label: "Active",
		Rules: []screen.Rule{screen.Boolean()},
	}

	return screen.NewScreen("Tasks", Route).
		Describe("Track and resolve outstanding tasks.").
		Query(queryTasks).
		Layout(
			screen.Table("tasks", "Open tasks",
				screen.TableColumn{Field: "name", Label: "Name"},
				screen.TableColumn{Field: "description", Label: "Description"},
				screen.TableColumn{Field: "active", Label: "Active"},
			).WithEmptyText("No tasks yet. Create one to get started."),
			screen.Modal("new-task", "New task", name, description, active),
		).
		Action(screen.ActionDescriptor{
			Name:        "create-task",
			Label:       "New task",
			Icon:        "plus",
			TargetModal: "new-task",
			Fields:      []screen.FieldPath{fieldName, fieldDescription, fieldActive},
		}, createTask).
		Action(screen.ActionDescriptor{
			Name:  "complete-task",
			Label: "Mark complete",
			Icon:  "check",
		}, completeTask).
		Action(screen.ActionDescriptor{
			Name:        "delete-task",
			Label:       "Delete",
			Icon:        "trash",
			Destructive: true,
		}, deleteTask).
		Build()
}

func queryTasks(_ context.Context, view screen.TransactionView) (map[string]any, error) {
	records := view.ListRecords(EntityTask, nil)
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]any{
			"id":          rec.ID,
			"version":     rec.Version,
			"name":        rec.Field("name"),
			"description": rec.Field("description"),
			"active":      rec.Field("active"),
		})
	}
	return map[string]any{"tasks": rows}, nil
}

func createTask(_ context.Context, tx screen.Transaction, payload screen.Payload) error {
	_, err := tx.CreateRecord(EntityTask, payload.FieldValues(EntityTask))
	return err
}

func completeTask(_ context.Context, tx screen.Transaction, payload screen.Payload) error {
	id := payload.RecordID()
	if id == "" {
		return fmt.Errorf("complete-task requires a record id")
	}
	_, err := tx.UpdateRecord(EntityTask, id, payload.VersionToken(), func(r *screen.Record) error {
		r.Fields["active"] = false
		return nil
	})
	return err
}

func deleteTask(_ context.Context, tx screen.Transaction, payload screen.Payload) error {
	id := payload.RecordID()
	if id == "" {
		return fmt.Errorf("delete-task requires a record id")
	}
	return tx.DeleteRecord(EntityTask, id, payload.VersionToken())
}
